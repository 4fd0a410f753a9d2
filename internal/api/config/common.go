package config

// Config 配置主体
type Config struct {
	Server                ServerConfig          `mapstructure:"server"`
	DB                    DBConfig              `mapstructure:"database"`
	Redis                 RedisConfig           `mapstructure:"redis"`
	Mongo                 MongoConfig           `mapstructure:"mongo"`
	Logstash              LogstashConfig        `mapstructure:"logstash"`
	Scheduler             SchedulerConfig       `mapstructure:"scheduler"`
	PushGateway           PushGatewayConfig     `mapstructure:"push_gateway"`
	Kafka                 KafkaConfig           `mapstructure:"kafka"`
	KafkaUserConsumer     KafkaUserConsumer     `mapstructure:"kafka_user_consumer"`
	KafkaJobFairConsumer  KafkaJobFairConsumer  `mapstructure:"kafka_job_fair_consumer"`
	KafkaQuestionConsumer KafkaQuestionConsumer `mapstructure:"kafka_question_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MongoConfig Mongo配置
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// LogstashConfig 日志上报配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// SchedulerConfig 汇总调度配置
type SchedulerConfig struct {
	Enabled     bool `mapstructure:"enabled"`      // 关闭后整个调度循环不启动 (测试/CI)
	UserTimeout int  `mapstructure:"user_timeout"` // 单用户汇总超时 (秒)
	PassTimeout int  `mapstructure:"pass_timeout"` // 单轮扫描超时 (秒)
}

// PushGatewayConfig 移动端推送网关配置 (可选)
type PushGatewayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Token   string `mapstructure:"token"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaUserConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaJobFairConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaQuestionConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
