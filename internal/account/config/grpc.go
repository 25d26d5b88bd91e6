package config

import (
	"net"
	"strconv"
)

// GRPCConfig конфигурация gRPC сервера проверки состояния.
type GRPCConfig struct {
	Host string `yaml:"host" env:"ACCOUNT_GRPC_HOST" env-default:"0.0.0.0"`
	Port int    `yaml:"port" env:"ACCOUNT_GRPC_PORT" env-default:"50051"`
}

// GetAddress возвращает адрес для gRPC сервера.
func (g *GRPCConfig) GetAddress() string {
	return net.JoinHostPort(g.Host, strconv.Itoa(g.Port))
}
