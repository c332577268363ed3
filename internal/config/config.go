package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMongo    = "mongo"
)

type Options struct {
	flagRunAddr, flagLogLevel, flagStorageBackend, flagDataBaseDSN,
	flagSQLitePath, flagMongoURI, flagMongoDatabase,
	flagJWTSigningKey, flagJWTTTL, flagConcurrency, flagSeedFile,
	flagAdminUsername, flagAdminPassword string
}

func NewOptions() *Options {
	return new(Options)
}

// ParseFlags handles command line arguments
// and stores their values in the corresponding variables.
func (o *Options) ParseFlags() {
	// Load environment variables from the .env file
	loadEnvFile()

	// Override variable values with values from command line flags
	regStringVar(&o.flagRunAddr, "a", getEnvOrDefault("RUN_ADDRESS", ":8080"), "address and port to run server")
	regStringVar(&o.flagStorageBackend, "b", getEnvOrDefault("STORAGE_BACKEND", ""), "storage backend: memory, postgres, sqlite or mongo")
	regStringVar(&o.flagConcurrency, "c", getEnvOrDefault("CONCURRENCY", "5"), "import concurrency")
	regStringVar(&o.flagDataBaseDSN, "d", getEnvOrDefault("DATABASE_URI", ""), "postgres connection string")
	regStringVar(&o.flagSeedFile, "f", getEnvOrDefault("SEED_FILE", ""), "yaml or json file with initial cities and settings")
	regStringVar(&o.flagJWTSigningKey, "j", getEnvOrDefault("JWT_SIGNING_KEY", "test_key"), "jwt signing key")
	regStringVar(&o.flagLogLevel, "l", getEnvOrDefault("LOG_LEVEL", "debug"), "log level")
	regStringVar(&o.flagMongoURI, "m", getEnvOrDefault("MONGO_URI", ""), "mongodb connection string")
	regStringVar(&o.flagMongoDatabase, "n", getEnvOrDefault("MONGO_DB", "worktravel"), "mongodb database name")
	regStringVar(&o.flagAdminPassword, "p", getEnvOrDefault("ADMIN_PASSWORD", ""), "bootstrap super admin password")
	regStringVar(&o.flagSQLitePath, "q", getEnvOrDefault("SQLITE_PATH", "worktravel.db"), "sqlite database file")
	regStringVar(&o.flagJWTTTL, "t", getEnvOrDefault("JWT_TTL", "720h"), "jwt lifetime")
	regStringVar(&o.flagAdminUsername, "u", getEnvOrDefault("ADMIN_USERNAME", "admin"), "bootstrap super admin username")

	// parse the arguments passed to the server into registered variables
	flag.Parse()
}

func (o *Options) RunAddr() string {
	return o.flagRunAddr
}

func (o *Options) LogLevel() string {
	return o.flagLogLevel
}

// StorageBackend falls back to postgres when a DSN is set and to memory otherwise.
func (o *Options) StorageBackend() string {
	if o.flagStorageBackend != "" {
		return o.flagStorageBackend
	}
	if o.flagDataBaseDSN != "" {
		return BackendPostgres
	}

	return BackendMemory
}

func (o *Options) DataBaseDSN() string {
	return o.flagDataBaseDSN
}

func (o *Options) SQLitePath() string {
	return o.flagSQLitePath
}

func (o *Options) MongoURI() string {
	return o.flagMongoURI
}

func (o *Options) MongoDatabase() string {
	return o.flagMongoDatabase
}

func (o *Options) JWTSigningKey() string {
	return o.flagJWTSigningKey
}

func (o *Options) JWTTTL() string {
	return o.flagJWTTTL
}

func (o *Options) Concurrency() string {
	return o.flagConcurrency
}

func (o *Options) SeedFile() string {
	return o.flagSeedFile
}

func (o *Options) AdminUsername() string {
	return o.flagAdminUsername
}

func (o *Options) AdminPassword() string {
	return o.flagAdminPassword
}

func regStringVar(p *string, name string, value string, usage string) {
	if flag.Lookup(name) == nil {
		flag.StringVar(p, name, value, usage)
	}
}

// getEnvOrDefault reads an environment variable or returns a default value if the variable is not set or is empty.
func getEnvOrDefault(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// loadEnvFile loads environment variables from a .env file in the working
// directory, then from the repository root when run from cmd/worktravel.
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	for _, envPath := range []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(cwd, "..", "..", ".env"),
	} {
		if err := godotenv.Load(envPath); err == nil {
			log.Printf(".env file loaded from %s", envPath)
			return
		}
	}

	log.Printf("No .env file found, proceeding without it")
}
