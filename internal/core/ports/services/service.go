package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Mapping      MappingResolverSvc
	FloatLedger  FloatLedgerSvc
	Posting      GLPostingSvc
	Dispatcher   TransactionDispatcherSvc
	Reversal     ReversalEngineSvc
	Reversals    ReversalRequestSvc
	Float        FloatOperationsSvc
	FloatAccount FloatAccountSvc
	GLConfig     GLConfigSvc
	GLStatistics GLStatisticsSvc
	Relay        OutboxRelaySvc
}
