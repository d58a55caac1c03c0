package domain

type MetricsCollector interface {
	RecordProbe(Report)
	RecordJobDispatched(target TargetName)
	RecordNotification(channel string, ok bool)
	RecordWorkerStart(workerID string)
	RecordWorkerStop(workerID string)
	RecordBotCommand(command string)
}
