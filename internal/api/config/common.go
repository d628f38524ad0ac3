package config

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Vote      VoteConfig      `mapstructure:"vote"`
	Tag       TagConfig       `mapstructure:"tag"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Cron      CronConfig      `mapstructure:"cron"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// StoreConfig 存储后端：mongo 或 memory
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

// MongoConfig MongoDB connection
type MongoConfig struct {
	URL            string `mapstructure:"url"`
	Database       string `mapstructure:"database"`
	ConnectTimeout int    `mapstructure:"connect_timeout"`
	Transactions   bool   `mapstructure:"transactions"`
	SlowThreshold  int    `mapstructure:"slow_threshold"`
}

// RedisConfig 缓存连接，Addr 为空时不启用缓存
type RedisConfig struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	PoolSize      int    `mapstructure:"pool_size"`
	TTL           int    `mapstructure:"ttl"`
	SlowThreshold int    `mapstructure:"slow_threshold"`
}

// KafkaConfig 交互事件流，未配置 broker 时不发布
type KafkaConfig struct {
	Brokers          []string   `mapstructure:"brokers"`
	Sasl             SaslConfig `mapstructure:"sasl"`
	InteractionTopic string     `mapstructure:"interaction_topic"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// AuthConfig 身份令牌校验
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// VoteConfig 声望策略
type VoteConfig struct {
	ReverseOnFlip bool `mapstructure:"reverse_on_flip"`
}

// TagConfig 标签匹配方式：exact 或 prefix
type TagConfig struct {
	MatchMode string `mapstructure:"match_mode"`
}

type RecommendConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
}

type CronConfig struct {
	PopularTags string `mapstructure:"popular_tags"`
}

// LogConfig Level 取 debug/info/warn/error，Format 取 json/text，File 非空时追加写入
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}
