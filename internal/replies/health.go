package replies

// HealthQueryPayload is the payload of a health query: server time in Unix milliseconds.
type HealthQueryPayload struct {
	Time int64 `json:"time"`
}

var (
	HealthQueried     = NewFactory[HealthQueryPayload]("APP_HEALTH_QUERIED", true)
	HealthQuerySchema = HealthQueried.Schema()
)
