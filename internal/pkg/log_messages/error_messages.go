package log_messages

const (
	FailedLoadingConfiguration = "failed to load configuration"

	ErrorFetchingClientConfig      = "error fetching client config document"
	ErrorFetchingUnitDocument      = "error fetching unit document"
	ErrorFetchingBillsDocuments    = "error fetching bill documents"
	ErrorFetchingTransactionDoc    = "error fetching transaction document"
	ErrorFetchingCreditBalance     = "error fetching credit balance document"
	ErrorFetchingMeterReading      = "error fetching meter reading document"
	EmptyDocumentFoundFromDb       = "no associated mongodb document found"
	ErrorMongoTransactionFailed    = "mongodb transaction failed"
	ErrorInvalidatingYearDataCache = "failed to invalidate cached year data"

	ErrorMarshallingMessage   = "failed to marshal message: %v"
	ErrorInMessagePublishing  = "failed to publish message: %v"
	TopicDoesNotExists        = "pubsub topic does not exist: %v"
	ErrorPubSubClientCreation = "error creating pubsub client: %v"

	KafkaProducerCreated          = "kafka producer created"
	KafkaProducerClosed           = "kafka producer closed"
	KafkaConsumerCreated          = "kafka consumer created"
	KafkaConsumerClosed           = "kafka consumer closed"
	KafkaErrorConsuming           = "kafka consumer error in consuming"
	ErrorUnmarshalingKafkaMessage = "error unmarshaling kafka message"

	ErrorClosingGCSClient     = "failed to close GCS client"
	ErrorClosingGCSWriter     = "failed to close GCS writer"
	ErrorUploadingToGCSBucket = "failed to upload object to GCS bucket"
	UploadedToGCSBucket       = "uploaded object to GCS bucket"

	FailureInPubsubConsumerCreation  = "failure in pubsub consumer creation"
	FailureInPubsubPublisherCreation = "failure in pubsub publisher creation"
	ServerStartFailure               = "failed to start http server"
	ServerExiting                    = "server exiting"
	CleanupStarted                   = "resource cleanup started"
	CleanupCompleted                 = "resource cleanup completed"
	GCSClientClosedSuccessfully      = "gcs client closed successfully"

	SuccessPaymentRecorded        = "payment recorded"
	SuccessTransactionReversed    = "transaction reversed"
	SuccessReceiptPublished       = "payment receipt notification published"
	SuccessLedgerEventPublished   = "ledger event published to kafka"
	SuccessImportBatchCompleted   = "legacy import batch completed"
	SuccessStatementUploaded      = "year statement uploaded"
	SuccessWaterBillsGenerated    = "water bills generated"
	SuccessDuesScheduleGenerated  = "hoa dues schedule generated"
	SuccessReadingsBatchProcessed = "meter readings batch processed"
)
