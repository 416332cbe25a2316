package kafka_config

import "time"

const (
	DefaultKafkaBrokers = ""

	DefaultBookingEventsTopic = "fleetbook.booking-events"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 100 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // all
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false
)
