package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// WhatsAppNotifier delivers digests through an Evolution API instance to a
// WhatsApp contact or group.
type WhatsAppNotifier struct {
	apiURL   string
	token    string
	instance string
	client   *http.Client
}

func NewWhatsAppNotifier(cfg Config) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		apiURL:   strings.TrimRight(cfg.EvolutionURL, "/"),
		token:    cfg.EvolutionToken,
		instance: cfg.EvolutionInstance,
		client:   externalHTTPClient,
	}
}

func (w *WhatsAppNotifier) Name() string { return "whatsapp" }

// Send posts the digest text to the recipient. Evolution answers 200 or 201
// when the message is accepted.
func (w *WhatsAppNotifier) Send(recipient, text string) error {
	payload, err := json.Marshal(map[string]string{
		"number": recipient,
		"text":   text,
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/message/sendText/%s", w.apiURL, w.instance)
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", w.token)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("whatsapp send: status %d: %s", resp.StatusCode, truncate(string(body), 300))
	}
	if id := gjson.GetBytes(body, "key.id"); id.Exists() {
		log.Printf("whatsapp sent recipient=%s message_id=%s", recipient, id.String())
	} else {
		log.Printf("whatsapp sent recipient=%s", recipient)
	}
	return nil
}
