package audit

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	"github.com/riskibarqy/hr-admin/internal/platform/logging"
)

const EventAssetUploaded = "asset.uploaded"

type Event struct {
	Type       string    `json:"type"`
	URL        string    `json:"url"`
	SizeBytes  int64     `json:"sizeBytes"`
	MIMEType   string    `json:"mimeType"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// UploadNotifier logs every completed upload and forwards it to an optional
// publisher in the background. Publish failures are logged, never returned.
type UploadNotifier struct {
	publisher Publisher
	timeout   time.Duration
	logger    *logging.Logger
	now       func() time.Time
	inflight  sync.WaitGroup
}

func NewUploadNotifier(publisher Publisher, timeout time.Duration, logger *logging.Logger) *UploadNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &UploadNotifier{
		publisher: publisher,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
	}
}

func (n *UploadNotifier) UploadCompleted(ctx context.Context, uploaded asset.UploadedAsset) {
	n.logger.InfoContext(ctx, "asset upload completed",
		"url", uploaded.URL,
		"size_bytes", uploaded.SizeBytes,
		"mime_type", uploaded.MIMEType,
	)
	if n.publisher == nil {
		return
	}

	event := Event{
		Type:       EventAssetUploaded,
		URL:        uploaded.URL,
		SizeBytes:  uploaded.SizeBytes,
		MIMEType:   uploaded.MIMEType,
		OccurredAt: n.now().UTC(),
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)

	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		defer cancel()
		if err := n.publisher.Publish(publishCtx, event); err != nil {
			n.logger.WarnContext(publishCtx, "publish audit event failed", "event", event.Type, "url", event.URL, "error", err)
		}
	}()
}

// Wait blocks until background publishes have finished.
func (n *UploadNotifier) Wait() {
	n.inflight.Wait()
}
