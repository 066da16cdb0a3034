package cfg

type Cfg struct {
	// Storage
	DBPath   string
	SeedFile string

	// Application configuration
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	FetchTimeout      int
	SerializeCycles   bool
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
