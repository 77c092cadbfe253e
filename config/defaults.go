package config

const (
	defaultConfigPath               = "~/.config/presenter/config.toml"
	defaultBaseDir                  = "."
	defaultLogLevel                 = "info"
	defaultQueueBackend             = BackendSQS
	defaultQueueName                = "start-presentations"
	defaultQueueWaitSeconds         = 20
	defaultQueueMaxMessages         = 1
	defaultQueueDirectory           = "~/.local/share/presenter/queue"
	defaultMongoURI                 = "mongodb://localhost:27017"
	defaultMongoDatabase            = "presenter"
	defaultMongoCollection          = "Messages"
	defaultVisibilityTimeoutSeconds = 30
	defaultApplication              = "Keynote"
	defaultOSAScript                = "osascript"
)

// Queue backends
const (
	BackendSQS        = "sqs"
	BackendFilesystem = "filesystem"
	BackendMongo      = "mongo"
)

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		BaseDir:  defaultBaseDir,
		LogLevel: defaultLogLevel,
		Queue: Queue{
			Backend:                  defaultQueueBackend,
			Name:                     defaultQueueName,
			WaitSeconds:              defaultQueueWaitSeconds,
			MaxMessages:              defaultQueueMaxMessages,
			Directory:                defaultQueueDirectory,
			MongoURI:                 defaultMongoURI,
			MongoDatabase:            defaultMongoDatabase,
			MongoCollection:          defaultMongoCollection,
			VisibilityTimeoutSeconds: defaultVisibilityTimeoutSeconds,
		},
		Automation: Automation{
			Application: defaultApplication,
			OSAScript:   defaultOSAScript,
		},
	}
}
