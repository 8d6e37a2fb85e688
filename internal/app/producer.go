package app

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/motion_controller/internal/config"
	"github.com/relabs-tech/motion_controller/motion"
	"github.com/relabs-tech/motion_controller/session"
)

// motionPayload is the JSON schema we publish per motion event.
// Axes and buttons come straight from the snapshot; time is RFC3339.
type motionPayload struct {
	motion.Snapshot
	Time string `json:"time"`
}

// RunProducer publishes scaled motion events to MQTT. Only changes
// beyond the configured tolerance are published, so an idle controller
// produces no traffic.
func RunProducer(cfg *config.Config) error {
	log.Println("starting motion-controller event producer (device → MQTT)")

	devs, cleanup, err := openDevices(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ses, err := session.Create(cfg.DevicePattern, devs)
	if err != nil {
		return err
	}
	log.Printf("producer: using device %q", ses.Device().Name())

	// MQTT client.
	clientID := cfg.MQTTClientIDProducer
	if clientID == "" {
		clientID = "motion-producer"
	}
	opts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker).SetClientID(clientID)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("producer: connected to MQTT broker at %s", cfg.MQTTBroker)

	publish := func(snap motion.Snapshot) {
		payload := motionPayload{
			Snapshot: snap,
			Time:     time.Now().UTC().Format(time.RFC3339),
		}
		b, err := json.Marshal(payload)
		if err != nil {
			log.Printf("producer: json marshal error: %v", err)
			return
		}
		token := client.Publish(cfg.TopicMotion, 0, true, b)
		token.Wait()
		if token.Error() != nil {
			log.Printf("producer: MQTT publish error: %v", token.Error())
			return
		}
		log.Printf("published motion event: %+v", payload)
	}

	handle, err := ses.Notify(publish,
		session.WithInterval(time.Duration(cfg.SampleIntervalMS)*time.Millisecond),
		session.WithTolerance(cfg.Tolerance),
		session.WithTargetRanges(cfg.TargetRanges()),
		session.WithCalibratedRanges(cfg.CalibratedRanges()),
	)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Println("producer: shutting down")
		handle.Stop()
		<-handle.Done()
		return nil
	case <-handle.Done():
		// The loop only exits on its own when the device fails.
		return handle.Err()
	}
}
