package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	authdomain "mailrag-backend/internal/auth/domain"
	maildomain "mailrag-backend/internal/mail/domain"
	"mailrag-backend/internal/mail/repository"
	"mailrag-backend/internal/subscription"
	"mailrag-backend/pkg/config"
	"mailrag-backend/pkg/utils/crypto"

	"golang.org/x/oauth2"
)

// mailUsecase implements MailUsecase interface
type mailUsecase struct {
	userRepo      UserRepository
	runRepo       repository.IngestRunRepository
	gmailProvider GmailProvider
	imapProvider  IMAPProvider
	aiService     AIService
	vectorStore   VectorStore
	sheetStore    SheetStore
	config        *config.Config
	pubsubTopic   string
}

// NewMailUsecase creates a new instance of mailUsecase
func NewMailUsecase(
	userRepo UserRepository,
	runRepo repository.IngestRunRepository,
	gmailProvider GmailProvider,
	imapProvider IMAPProvider,
	aiService AIService,
	vectorStore VectorStore,
	sheetStore SheetStore,
	cfg *config.Config,
	pubsubTopic string,
) MailUsecase {
	return &mailUsecase{
		userRepo:      userRepo,
		runRepo:       runRepo,
		gmailProvider: gmailProvider,
		imapProvider:  imapProvider,
		aiService:     aiService,
		vectorStore:   vectorStore,
		sheetStore:    sheetStore,
		config:        cfg,
		pubsubTopic:   pubsubTopic,
	}
}

// IngestEmails runs one ingestion pass: fetch, drop empty bodies, embed in
// batches on a bounded worker pool, upsert each batch, record the run.
func (u *mailUsecase) IngestEmails(ctx context.Context, userID, startDate, endDate string) (*maildomain.IngestRun, error) {
	if startDate == "" || endDate == "" {
		return nil, ErrMissingDateRange
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasMailCredentials() {
		return nil, ErrNotLoggedIn
	}

	// A list/pagination failure aborts the whole run; there is no partial
	// result to disguise as complete.
	messages, err := u.fetchMessages(ctx, user, startDate, endDate)
	if err != nil {
		failed := &maildomain.IngestRun{
			UserID:    user.ID,
			UserEmail: user.Email,
			StartDate: startDate,
			EndDate:   endDate,
			Status:    maildomain.RunStatusFailed,
		}
		if createErr := u.runRepo.Create(failed); createErr != nil {
			log.Printf("[Ingest] Failed to record failed run for %s: %v", user.Email, createErr)
		}
		return nil, fmt.Errorf("failed to fetch emails: %w", err)
	}

	run := &maildomain.IngestRun{
		UserID:    user.ID,
		UserEmail: user.Email,
		StartDate: startDate,
		EndDate:   endDate,
		Fetched:   len(messages),
		Status:    maildomain.RunStatusRunning,
	}
	if err := u.runRepo.Create(run); err != nil {
		log.Printf("[Ingest] Failed to record run for %s: %v", user.Email, err)
	}

	// Messages without usable text carry no retrievable signal.
	usable := make([]*maildomain.MailMessage, 0, len(messages))
	emptySkipped := 0
	for _, msg := range messages {
		if msg.Text == "" {
			emptySkipped++
			continue
		}
		usable = append(usable, msg)
	}

	upserted, itemSkipped, batchesLost := u.embedAndUpsert(ctx, user.Email, usable)

	run.Upserted = int(upserted)
	run.Skipped = emptySkipped + int(itemSkipped)
	run.Status = maildomain.RunStatusComplete
	if itemSkipped > 0 || batchesLost > 0 {
		run.Status = maildomain.RunStatusPartial
	}

	u.storeSubscriptions(ctx, user, usable)

	if err := u.runRepo.Update(run); err != nil {
		log.Printf("[Ingest] Failed to finalize run for %s: %v", user.Email, err)
	}

	log.Printf("[Ingest] Run for %s [%s, %s): fetched=%d upserted=%d skipped=%d status=%s",
		user.Email, startDate, endDate, run.Fetched, run.Upserted, run.Skipped, run.Status)

	return run, nil
}

// embedAndUpsert distributes batches across a bounded worker pool. Each
// worker owns one batch end-to-end: embed every text in the batch, then
// upsert the batch. Batches are independent; the only shared state is the
// progress and outcome counters, updated atomically.
func (u *mailUsecase) embedAndUpsert(ctx context.Context, userEmail string, messages []*maildomain.MailMessage) (upserted, itemSkipped, batchesLost int64) {
	if len(messages) == 0 {
		return 0, 0, 0
	}

	batchSize := u.config.IngestBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	workerCount := u.config.IngestWorkers
	if workerCount <= 0 {
		workerCount = 5
	}

	batches := chunkMessages(messages, batchSize)
	jobs := make(chan []*maildomain.MailMessage, len(batches))

	var progress int64
	total := int64(len(messages))

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				records := make([]*maildomain.VectorRecord, 0, len(batch))
				for _, msg := range batch {
					embedding, err := u.aiService.Embed(ctx, msg.Text)
					done := atomic.AddInt64(&progress, 1)
					if err != nil {
						log.Printf("[Ingest] Error embedding email %s (%d/%d): %v", msg.ID, done, total, err)
						atomic.AddInt64(&itemSkipped, 1)
						continue
					}
					records = append(records, u.buildRecord(userEmail, msg, embedding))
				}

				if len(records) == 0 {
					continue
				}
				if err := u.vectorStore.UpsertRecords(ctx, records); err != nil {
					// Whether earlier batches committed is provider-dependent;
					// the run is reported partial either way.
					log.Printf("[Ingest] Error upserting batch of %d: %v", len(records), err)
					atomic.AddInt64(&batchesLost, 1)
					continue
				}
				atomic.AddInt64(&upserted, int64(len(records)))
			}
		}()
	}

	for _, batch := range batches {
		jobs <- batch
	}
	close(jobs)
	wg.Wait()

	return upserted, itemSkipped, batchesLost
}

func (u *mailUsecase) buildRecord(userEmail string, msg *maildomain.MailMessage, embedding []float32) *maildomain.VectorRecord {
	text := truncateText(msg.Text, u.config.MetadataMaxChars)
	return &maildomain.VectorRecord{
		ID:        ContentID(msg.Text),
		Embedding: embedding,
		Metadata: maildomain.RecordMetadata{
			UserEmail: userEmail,
			Text:      text,
			Date:      msg.Date,
			Sender:    msg.Sender,
			Subject:   msg.Subject,
			Link:      msg.Link,
		},
	}
}

func (u *mailUsecase) fetchMessages(ctx context.Context, user *authdomain.User, startDate, endDate string) ([]*maildomain.MailMessage, error) {
	if user.Provider == "imap" {
		password, err := crypto.Decrypt(user.ImapPassword, u.config.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt IMAP password: %v", err)
		}
		return u.imapProvider.FetchByDateRange(ctx, user.ImapServer, user.ImapPort, user.Email, password, startDate, endDate)
	}

	return u.gmailProvider.FetchByDateRange(
		ctx,
		user.GoogleAccessToken,
		user.GoogleRefreshToken,
		startDate,
		endDate,
		u.makeTokenUpdateCallback(user.ID),
	)
}

// makeTokenUpdateCallback persists refreshed oauth tokens for the user.
func (u *mailUsecase) makeTokenUpdateCallback(userID string) maildomain.TokenUpdateFunc {
	return func(token *oauth2.Token) error {
		return u.userRepo.UpdateGoogleTokens(userID, token.AccessToken, token.RefreshToken)
	}
}

// storeSubscriptions scans messages for subscription candidates and appends
// them to the configured sheet. Best effort: failures are logged, never
// surfaced, and never affect the run status.
func (u *mailUsecase) storeSubscriptions(ctx context.Context, user *authdomain.User, messages []*maildomain.MailMessage) {
	if u.sheetStore == nil || u.config.SubscriptionSheetID == "" || user.Provider != "google" {
		return
	}

	candidates := subscription.Scan(messages)
	if len(candidates) == 0 {
		return
	}

	err := u.sheetStore.AppendRows(ctx, user.GoogleAccessToken, user.GoogleRefreshToken, u.config.SubscriptionSheetID, subscription.Rows(candidates))
	if err != nil {
		log.Printf("[Ingest] Failed to store %d subscription candidates: %v", len(candidates), err)
		return
	}
	log.Printf("[Ingest] Stored %d subscription candidates", len(candidates))
}

// IngestRecent runs a one-day incremental ingest for the notified account.
func (u *mailUsecase) IngestRecent(ctx context.Context, userEmail string) error {
	user, err := u.userRepo.FindByEmail(userEmail)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no account for %s", userEmail)
	}

	now := time.Now()
	start := now.AddDate(0, 0, -1).Format("2006/01/02")
	end := now.AddDate(0, 0, 1).Format("2006/01/02")

	_, err = u.IngestEmails(ctx, user.ID, start, end)
	return err
}

// ClearIndex drops everything the user has indexed. Re-ingesting afterwards
// rebuilds the index from scratch.
func (u *mailUsecase) ClearIndex(ctx context.Context, userID string) error {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotLoggedIn
	}

	if err := u.vectorStore.DeleteByOwner(ctx, user.Email); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	log.Printf("[Ingest] Cleared index for %s", user.Email)
	return nil
}

func (u *mailUsecase) ListRuns(userID string) ([]*maildomain.IngestRun, error) {
	return u.runRepo.ListByUser(userID, 20)
}

// WatchMailbox registers Gmail push notifications for the user's inbox.
func (u *mailUsecase) WatchMailbox(ctx context.Context, userID string) error {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil || !user.HasMailCredentials() {
		return ErrNotLoggedIn
	}
	if user.Provider == "imap" {
		return fmt.Errorf("push notifications are only available for Gmail accounts")
	}
	if u.pubsubTopic == "" {
		return fmt.Errorf("no pubsub topic configured")
	}

	topic := fmt.Sprintf("projects/%s/topics/%s", u.config.GoogleProjectID, u.pubsubTopic)
	return u.gmailProvider.Watch(ctx, user.GoogleAccessToken, user.GoogleRefreshToken, topic, u.makeTokenUpdateCallback(user.ID))
}

// truncateText bounds text to max bytes, backing off to a rune boundary so
// the stored metadata stays valid UTF-8.
func truncateText(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func chunkMessages(messages []*maildomain.MailMessage, size int) [][]*maildomain.MailMessage {
	var batches [][]*maildomain.MailMessage
	for start := 0; start < len(messages); start += size {
		end := start + size
		if end > len(messages) {
			end = len(messages)
		}
		batches = append(batches, messages[start:end])
	}
	return batches
}
