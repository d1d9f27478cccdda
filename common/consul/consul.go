package consul

import (
	"fmt"

	"github.com/hashicorp/consul/api"
	"github.com/pkg/errors"
)

// Client registers services with the local Consul agent.
type Client interface {
	RegisterService(serviceName, address string, port int) (string, error)
	DeregisterService(serviceId string) error
}

type client struct {
	cfg    *Config
	client *api.Client
}

func NewClient(cfg *Config) (Client, error) {
	cl, err := api.NewClient(cfg.toApiConfig())
	if err != nil {
		return nil, errors.Wrap(err, "create consul client")
	}
	return &client{client: cl, cfg: cfg}, nil
}

func ServiceId(serviceName, address string, port int) string {
	return fmt.Sprintf("%s-%s:%d", serviceName, address, port)
}

func (c *client) RegisterService(serviceName, address string, port int) (string, error) {
	serviceId := ServiceId(serviceName, address, port)
	reg := &api.AgentServiceRegistration{
		ID:      serviceId,
		Name:    serviceName,
		Address: address,
		Port:    port,
	}
	if c.cfg.Health != nil {
		reg.Check = c.cfg.Health.toApiCheck(address, port)
	}
	if err := c.client.Agent().ServiceRegister(reg); err != nil {
		return "", errors.Wrapf(err, "register service %s", serviceId)
	}
	return serviceId, nil
}

func (c *client) DeregisterService(serviceId string) error {
	return errors.Wrapf(c.client.Agent().ServiceDeregister(serviceId), "deregister service %s", serviceId)
}

// Noop is used when no consul block is configured.
type Noop struct{}

func (Noop) RegisterService(serviceName, address string, port int) (string, error) {
	return ServiceId(serviceName, address, port), nil
}

func (Noop) DeregisterService(string) error {
	return nil
}
