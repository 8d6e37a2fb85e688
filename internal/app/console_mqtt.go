package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/motion_controller/internal/config"
)

// RunConsoleMQTT renders motion events published by the producer. It
// is the remote counterpart of RunConsole: same output, but fed from
// the broker instead of a local device.
func RunConsoleMQTT(cfg *config.Config) error {
	clientID := cfg.MQTTClientIDConsole
	if clientID == "" {
		clientID = "motion-console"
	}
	opts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker).SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicMotion, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p motionPayload
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("console: motion unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[MOVE]  X=%7.3f  Y=%7.3f  Z=%7.3f  RX=%7.3f  RY=%7.3f  RZ=%7.3f  L=%s R=%s  %s\n",
			p.X, p.Y, p.Z, p.RX, p.RY, p.RZ,
			buttonMark(p.BtnLeft), buttonMark(p.BtnRight), p.Time,
		)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicMotion)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
