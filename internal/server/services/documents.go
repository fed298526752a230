package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gotofast/logistics/internal/common"
	"github.com/gotofast/logistics/internal/logging"
	sc "github.com/gotofast/logistics/internal/server/config"
	"github.com/gotofast/logistics/internal/server/models"
	"github.com/gotofast/logistics/internal/server/repositories/repomanager"
)

// presignExpiry bounds how long an upload URL stays valid.
const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

var documentKinds = map[string]bool{
	models.DocumentDrivingLicence:      true,
	models.DocumentVehicleRegistration: true,
	models.DocumentIdentityProof:       true,
}

// DocumentService hands out presigned upload URLs for partner documents
// and records what was requested.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
	now         func() time.Time
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config, logger logging.Logger) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: m,
		config:      config,
		logger:      logger.With("module", "documents"),
		now:         time.Now,
	}
}

// StorageKey builds partners/<partner>/<yyyy>/<mm>/<dd>/<uuid>.
func StorageKey(partnerID int64, at time.Time) string {
	return fmt.Sprintf("partners/%d/%04d/%02d/%02d/%v", partnerID, at.Year(), at.Month(), at.Day(), uuid.New())
}

func (s *DocumentService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// RequestUpload records a new document of the given kind for partnerID and
// returns a presigned PUT URL for it.
func (s *DocumentService) RequestUpload(ctx context.Context, partnerID int64, kind string) (*models.DocumentUploadTask, error) {
	if !documentKinds[kind] {
		return nil, fmt.Errorf("%w: unknown document kind %q", common.ErrorValidation, kind)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		s.logger.Error(ctx, "s3 config", "error", err)
		return nil, common.ErrorInternal
	}

	now := s.now().UTC()
	doc := &models.Document{
		ID:         uuid.NewString(),
		PartnerID:  partnerID,
		Kind:       kind,
		StorageKey: StorageKey(partnerID, now),
		CreatedAt:  now,
	}

	bucket := s.config.S3Bucket
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &doc.StorageKey,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		s.logger.Error(ctx, "presign put", "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.Documents(s.db).Create(ctx, doc); err != nil {
		s.logger.Error(ctx, "record document", "error", err)
		return nil, common.ErrorInternal
	}

	return &models.DocumentUploadTask{
		Document:  doc,
		URL:       req.URL,
		ExpiresAt: now.Add(presignExpiry),
	}, nil
}

func (s *DocumentService) List(ctx context.Context, partnerID int64) ([]models.Document, error) {
	docs, err := s.repomanager.Documents(s.db).ListByPartner(ctx, partnerID)
	if err != nil {
		s.logger.Error(ctx, "list documents", "error", err)
		return nil, common.ErrorInternal
	}
	return docs, nil
}
