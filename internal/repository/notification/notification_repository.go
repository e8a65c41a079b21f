package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"myCourseCompass/pkg/logger"

	"github.com/pobyzaarif/goshortcute"
)

type MailjetConfig struct {
	MailjetBaseURL           string
	MailjetBasicAuthUsername string
	MailjetBasicAuthPassword string
	MailjetSenderEmail       string
	MailjetSenderName        string
}

type MailjetRepository struct {
	mailjetConfig MailjetConfig
	client        *http.Client
}

func NewMailjetRepository(cfg MailjetConfig) *MailjetRepository {
	return &MailjetRepository{
		mailjetConfig: cfg,
		client:        &http.Client{Timeout: 5 * time.Second},
	}
}

type sendRequest struct {
	Messages []message `json:"Messages"`
}

type contact struct {
	Email string `json:"Email"`
	Name  string `json:"Name"`
}

type message struct {
	From     contact   `json:"From"`
	To       []contact `json:"To"`
	Subject  string    `json:"Subject"`
	TextPart string    `json:"TextPart"`
	HTMLPart string    `json:"HTMLPart"`
}

func (r *MailjetRepository) SendEmail(toName, toEmail, subject, body string) error {
	payload := sendRequest{
		Messages: []message{{
			From: contact{
				Email: r.mailjetConfig.MailjetSenderEmail,
				Name:  r.mailjetConfig.MailjetSenderName,
			},
			To:       []contact{{Email: toEmail, Name: toName}},
			Subject:  subject,
			TextPart: body,
			HTMLPart: body,
		}},
	}

	payloadByte, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, r.mailjetConfig.MailjetBaseURL+"/v3.1/send", bytes.NewReader(payloadByte))
	if err != nil {
		return err
	}

	buildBasicAuth := goshortcute.StringtoBase64Encode(r.mailjetConfig.MailjetBasicAuthUsername + ":" + r.mailjetConfig.MailjetBasicAuthPassword)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Basic "+buildBasicAuth)

	res, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return nil
	}

	bodyBytes, _ := io.ReadAll(res.Body)
	logger.Warn("Mailjet rejected message", "status", res.StatusCode, "response", string(bodyBytes))

	return fmt.Errorf("mailer service return negative response %v", res.StatusCode)
}
