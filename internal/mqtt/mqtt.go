package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	connectTimeout = 10 * time.Second
	tokenTimeout   = 5 * time.Second
	keepAlive      = 60 * time.Second
)

var errTimeout = errors.New("timeout waiting for broker")

// Configuration of the broker connection.
type Configuration struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Prefix   string
}

// Connect connects to the broker. The session is kept on reconnect, so subscriptions made by the Bridge survive
// a lost connection. The broker publishes "offline" to <prefix>/status when the connection drops.
func Connect(cfg Configuration, logger *slog.Logger) (paho.Client, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(false)
	opts.SetResumeSubs(true)
	opts.SetOrderMatters(false)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(keepAlive)
	opts.SetWill(statusTopic(cfg.Prefix), "offline", 1, true)
	opts.SetOnConnectHandler(func(c paho.Client) {
		logger.Info("connected to broker", "broker", cfg.Broker)
		c.Publish(statusTopic(cfg.Prefix), 1, true, "online")
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logger.Warn("connection to broker lost", "err", err)
	})

	client := paho.NewClient(opts)
	if err := wait(client.Connect(), connectTimeout); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return client, nil
}

func statusTopic(prefix string) string {
	return prefix + "/status"
}

func wait(token paho.Token, timeout time.Duration) error {
	if !token.WaitTimeout(timeout) {
		return errTimeout
	}
	return token.Error()
}

// Task connects to the broker and runs a Bridge until ctx is done.
type Task struct {
	Configuration
	Poller Poller
	Logger *slog.Logger
}

func (t Task) Run(ctx context.Context) error {
	client, err := Connect(t.Configuration, t.Logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	return New(client, t.Poller, t.Prefix, t.Logger).Run(ctx)
}
