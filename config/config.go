package config

type FromEnv struct {
	LogLevel string `env:"LOG_LEVEL"`

	// DMF mapping files
	DmfDir       string `env:"DMF_DIR,required"`
	DmfFunctions bool   `env:"DMF_FUNCTIONS"`

	ScanIntervalSeconds int  `env:"SCAN_INTERVAL_SECONDS,default=300"`
	WorkersNum          int  `env:"WORKERS_NUM,default=10"`
	ProbeMissingSysOID  bool `env:"PROBE_MISSING_SYSOID"`

	// Librenms DB credentials
	DbUsername string `env:"DB_USERNAME,required"`
	DbPassword string `env:"DB_PASSWORD,required"`
	DbHost     string `env:"DB_HOST,required"`
	DbPort     string `env:"DB_PORT,required"`
	DbName     string `env:"DB_NAME,required"`
	DbQuery    string `env:"DB_QUERY"`

	ClickhouseTableName      string `env:"CLICKHOUSE_TABLE_NAME,default=dmf_identifications"`
	ClickhouseQueueLength    int    `env:"CLICKHOUSE_QUEUE_LENGTH,default=1000"`
	ClickhouseFlushFrequency int    `env:"CLICKHOUSE_FLUSH_FREQUENCY,default=60"`
	ClickhouseBatchSize      int    `env:"CLICKHOUSE_BATCH_SIZE,default=100"`
	ClickhouseDb             string `env:"CLICKHOUSE_DB,required"`
	ClickhouseUsername       string `env:"CLICKHOUSE_USERNAME,required"`
	ClickhousePassword       string `env:"CLICKHOUSE_PASSWORD,required"`
	ClickhouseAddr           string `env:"CLICKHOUSE_ADDR,required"`
	ClickhousePort           string `env:"CLICKHOUSE_PORT,required"`
}
