package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// dlqMessage is published to the DLQ on repeated failure.
type dlqMessage struct {
	Request Request `json:"request"`
	Error   string  `json:"error"`
	Retries int     `json:"retries"`
}

// StartConsumer subscribes the service to the ingestion subject. Failed
// requests are re-published with an incremented X-Retry-Count header and
// land on the DLQ after MaxRetries. Successful results answer the reply
// subject when one is set.
func StartConsumer(nc *nats.Conn, svc *Service, logger *slog.Logger) (*nats.Subscription, error) {
	if logger == nil {
		logger = slog.Default()
	}

	return nc.Subscribe(IngestSubject, func(msg *nats.Msg) {
		var req Request
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			logger.Error("ingest: unmarshal failed", "error", err)
			return
		}

		retries := 0
		if msg.Header != nil {
			if v := msg.Header.Get("X-Retry-Count"); v != "" {
				fmt.Sscanf(v, "%d", &retries)
			}
		}

		result, err := svc.Ingest(context.Background(), req)
		if err != nil {
			retries++
			logger.Error("ingest: request failed",
				"error", err,
				"url", req.URL,
				"retry", retries,
			)

			if retries >= MaxRetries {
				dlq := dlqMessage{Request: req, Error: err.Error(), Retries: retries}
				data, _ := json.Marshal(dlq)
				if err := nc.Publish(DLQSubject, data); err != nil {
					logger.Error("ingest: DLQ publish failed", "error", err)
				}
			} else {
				retryMsg := nats.NewMsg(IngestSubject)
				retryMsg.Data = msg.Data
				retryMsg.Header = nats.Header{}
				retryMsg.Header.Set("X-Retry-Count", fmt.Sprintf("%d", retries))
				if err := nc.PublishMsg(retryMsg); err != nil {
					logger.Error("ingest: retry publish failed", "error", err)
				}
			}
			return
		}

		if msg.Reply != "" {
			data, _ := json.Marshal(result)
			if err := msg.Respond(data); err != nil {
				logger.Error("ingest: reply failed", "error", err)
			}
		}
	})
}
