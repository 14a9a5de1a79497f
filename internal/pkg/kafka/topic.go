package kafka

const (
	// TopicLogs is the name of the Kafka topic carrying console log events.
	TopicLogs = "devconsole_logs"
)
