package config

import "github.com/spf13/viper"

// Config holds typed configuration for the reflow API service.
type Config struct {
	LogLevel     string
	HTTPPort     string
	MetricsAddr  string
	KafkaBrokers string
	AuditTopic   string
	OTelEndpoint string
}

// Load reads all values from the given viper instance.
func Load(v *viper.Viper) Config {
	return Config{
		LogLevel:     v.GetString("log_level"),
		HTTPPort:     v.GetString("http_port"),
		MetricsAddr:  v.GetString("metrics_addr"),
		KafkaBrokers: v.GetString("kafka_brokers"),
		AuditTopic:   v.GetString("audit_topic"),
		OTelEndpoint: v.GetString("otel_endpoint"),
	}
}
