package config

const (
	EnvBackend     = "RF24_BACKEND"
	EnvCEPin       = "RF24_CE_PIN"
	EnvCSN         = "RF24_CSN"
	EnvSpiSpeed    = "RF24_SPI_SPEED"
	EnvIRQPin      = "RF24_IRQ_PIN"
	EnvChannel     = "RF24_CHANNEL"
	EnvPALevel     = "RF24_PA_LEVEL"
	EnvDataRate    = "RF24_DATA_RATE"
	EnvMetricsAddr = "RF24_METRICS_ADDR"
	EnvVerbose     = "RF24_VERBOSE"

	DefaultBackend     = "spidev"
	DefaultCEPin       = 22
	DefaultCSN         = 0
	DefaultSpiSpeed    = 1000000
	DefaultIRQPin      = 0
	DefaultChannel     = 76
	DefaultPALevel     = "" // each example picks its own
	DefaultDataRate    = "1mbps"
	DefaultMetricsAddr = ""

	// DefaultEnvFile is read when present and no other file is named.
	DefaultEnvFile = ".env"
)
