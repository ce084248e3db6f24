package sftpclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/config"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
)

// SftpClient pulls legacy export files from the import drop directory and
// moves them to the processed directory afterwards.
type SftpClient struct {
	cfg config.SFTPConfig
}

func NewSftpClient(cfg config.SFTPConfig) *SftpClient {
	return &SftpClient{cfg: cfg}
}

func (s *SftpClient) connect() (*sftp.Client, error) {
	sshConfig := &ssh.ClientConfig{
		User: s.cfg.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(s.cfg.Password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	conn, err := ssh.Dial("tcp", fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port), sshConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SSH: %w", err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create SFTP client: %w", err)
	}
	return client, nil
}

// PullImportFile reads one file from the import drop directory.
func (s *SftpClient) PullImportFile(ctx context.Context, fileName string) ([]byte, error) {
	client, err := s.connect()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	remotePath := filepath.Join(consts.SFTPImportDir, filepath.Base(fileName))
	remoteFile, err := client.Open(remotePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", remotePath, err)
	}
	defer remoteFile.Close()

	data, err := io.ReadAll(remoteFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", remotePath, err)
	}

	logger.CtxInfo(ctx, "Pulled import file from SFTP",
		slog.String("file", remotePath), slog.Int("bytes", len(data)))
	return data, nil
}

// ArchiveImportFile moves a processed file into the processed directory so a
// re-run of the import does not pick it up again.
func (s *SftpClient) ArchiveImportFile(ctx context.Context, fileName string) error {
	client, err := s.connect()
	if err != nil {
		return err
	}
	defer client.Close()

	srcPath := filepath.Join(consts.SFTPImportDir, filepath.Base(fileName))
	destPath := filepath.Join(consts.SFTPProcessedDir, filepath.Base(fileName))

	destDir := filepath.Dir(destPath)
	if _, err := client.Stat(destDir); os.IsNotExist(err) {
		if err := client.MkdirAll(destDir); err != nil {
			return fmt.Errorf("failed to create directory: %v", err)
		}
	}

	if err := client.Rename(srcPath, destPath); err != nil {
		return fmt.Errorf("failed to move file: %v", err)
	}

	logger.CtxInfo(ctx, "Archived import file on SFTP", slog.String("file", destPath))
	return nil
}
