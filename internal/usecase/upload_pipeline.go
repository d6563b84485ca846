package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	idgen "github.com/riskibarqy/hr-admin/internal/platform/id"
	"github.com/riskibarqy/hr-admin/internal/platform/logging"
)

const defaultUploadTimeout = 15 * time.Second

// UploadPipeline checks an image against the asset policy, hands it to the
// storage service, and reports the durable reference.
type UploadPipeline struct {
	storage  asset.Storage
	notifier asset.CompletionNotifier
	policy   asset.Policy
	timeout  time.Duration
	idGen    idgen.Generator
	logger   *logging.Logger
}

func NewUploadPipeline(
	storage asset.Storage,
	notifier asset.CompletionNotifier,
	policy asset.Policy,
	timeout time.Duration,
	idGen idgen.Generator,
	logger *logging.Logger,
) *UploadPipeline {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultUploadTimeout
	}
	if policy.MaxBytes <= 0 {
		policy.MaxBytes = asset.DefaultMaxBytes
	}
	if len(policy.AllowedMIMETypes) == 0 {
		policy.AllowedMIMETypes = asset.DefaultPolicy().AllowedMIMETypes
	}
	if idGen == nil {
		idGen = idgen.NewUUIDGenerator()
	}

	return &UploadPipeline{
		storage:  storage,
		notifier: notifier,
		policy:   policy,
		timeout:  timeout,
		idGen:    idGen,
		logger:   logger,
	}
}

func (p *UploadPipeline) Upload(ctx context.Context, data []byte, declaredMIME string) (asset.UploadedAsset, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UploadPipeline.Upload",
		attribute.Int("asset.size_bytes", len(data)),
		attribute.String("asset.declared_mime", declaredMIME),
	)
	defer span.End()

	mimeType, err := p.check(data, declaredMIME)
	if err != nil {
		recordSpanError(span, err)
		p.logger.WarnContext(ctx, "asset rejected", "size_bytes", len(data), "declared_mime", declaredMIME, "error", err)
		return asset.UploadedAsset{}, err
	}

	key, err := p.objectKey(mimeType)
	if err != nil {
		recordSpanError(span, err)
		return asset.UploadedAsset{}, err
	}

	uploadCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	stored, err := p.storage.Put(uploadCtx, asset.Object{Key: key, ContentType: mimeType, Data: data})
	if err != nil {
		if errors.Is(err, asset.ErrStorageUnavailable) {
			recordSpanError(span, err)
			return asset.UploadedAsset{}, err
		}
		err = fmt.Errorf("%w: put object %s: %w", asset.ErrStorageUnavailable, key, err)
		recordSpanError(span, err)
		p.logger.ErrorContext(ctx, "asset upload failed", "key", key, "error", err)
		return asset.UploadedAsset{}, err
	}
	if err := validateStoredURL(stored.URL); err != nil {
		recordSpanError(span, err)
		p.logger.ErrorContext(ctx, "storage returned unusable reference", "key", key, "error", err)
		return asset.UploadedAsset{}, err
	}

	uploaded := asset.UploadedAsset{
		URL:       stored.URL,
		SizeBytes: int64(len(data)),
		MIMEType:  mimeType,
	}
	if p.notifier != nil {
		p.notifier.UploadCompleted(ctx, uploaded)
	}
	return uploaded, nil
}

func (p *UploadPipeline) check(data []byte, declaredMIME string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: image is empty", asset.ErrAssetRejected)
	}
	if int64(len(data)) > p.policy.MaxBytes {
		return "", fmt.Errorf("%w: image is %d bytes, limit is %d", asset.ErrAssetRejected, len(data), p.policy.MaxBytes)
	}

	mimeType := asset.NormalizeMIMEType(declaredMIME)
	if !p.policy.Allows(mimeType) {
		return "", fmt.Errorf("%w: content type %q is not allowed", asset.ErrAssetRejected, declaredMIME)
	}

	detected := mimetype.Detect(data)
	if !detected.Is(mimeType) {
		return "", fmt.Errorf("%w: content looks like %s, declared %s", asset.ErrAssetRejected, detected.String(), mimeType)
	}
	return mimeType, nil
}

func (p *UploadPipeline) objectKey(mimeType string) (string, error) {
	id, err := p.idGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate object key: %w", err)
	}
	return "profile-images/" + id + asset.Extension(mimeType), nil
}

func validateStoredURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: storage returned an empty url", asset.ErrStorageUnavailable)
	}
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("%w: storage returned an invalid url %q", asset.ErrStorageUnavailable, raw)
	}
	return nil
}
