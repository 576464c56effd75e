package config

import (
	"fmt"
	"os"

	"github.com/studytrack/studytrack/pkg/utils"
)

type Service struct {
	Host     string
	Port     string
	Protocol string
}

type ServicesConfig struct {
	LocalIP   string
	API       Service
	WebSocket Service
}

func LoadServicesConfig() *ServicesConfig {
	localIP := utils.GetLocalIP()

	cfg := &ServicesConfig{
		LocalIP: localIP,
		API: Service{
			Host:     getEnvOrDefault("API_HOST", localIP),
			Port:     getEnvOrDefault("API_PORT", "8080"),
			Protocol: "http",
		},
		WebSocket: Service{
			Host:     getEnvOrDefault("WEBSOCKET_HOST", localIP),
			Port:     getEnvOrDefault("WEBSOCKET_PORT", "8080"),
			Protocol: "ws",
		},
	}

	return cfg
}

func (s *Service) URL() string {
	return fmt.Sprintf("%s://%s:%s", s.Protocol, s.Host, s.Port)
}

func (cfg *ServicesConfig) GetDiscoveryResponse() map[string]interface{} {
	return map[string]interface{}{
		"local_ip": cfg.LocalIP,
		"services": map[string]interface{}{
			"api":       cfg.API.URL(),
			"websocket": cfg.WebSocket.URL(),
		},
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
