package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/andy/invoicewiz/internal/domain"
	"github.com/andy/invoicewiz/internal/repository"
	"github.com/andy/invoicewiz/internal/validation"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

var (
	ErrInvoiceNotFound = repository.ErrInvoiceNotFound
	ErrInvalidDraft    = errors.New("invalid draft")
	ErrNotSent         = errors.New("invoice has not been sent")
)

// InvoiceService turns completed drafts into stored invoices and manages
// their lifecycle.
type InvoiceService interface {
	// Issue validates, numbers and stores a completed draft
	Issue(ctx context.Context, draft domain.Draft) (*domain.Invoice, error)

	// Export renders the invoice as PDF into dir and returns the file path
	Export(ctx context.Context, id int64, dir string) (string, error)

	Get(ctx context.Context, id int64) (*domain.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*domain.Invoice, error)

	// Find resolves a numeric id or an invoice number
	Find(ctx context.Context, ref string) (*domain.Invoice, error)

	List(ctx context.Context, status *domain.InvoiceStatus) ([]*domain.Invoice, error)

	// MarkSent updates invoice status to sent
	MarkSent(ctx context.Context, id int64, at time.Time) (*domain.Invoice, error)

	// MarkPaid updates a sent or overdue invoice to paid
	MarkPaid(ctx context.Context, id int64, at time.Time) (*domain.Invoice, error)

	// CheckOverdue flags sent invoices past their due date and returns them
	CheckOverdue(ctx context.Context, now time.Time) ([]*domain.Invoice, error)

	// LastIssuer returns the remembered issuer, or nil
	LastIssuer(ctx context.Context) (*domain.Issuer, error)

	// SetOptions replaces the invoice defaults used by later calls
	SetOptions(opts Options)
}

// Renderer writes an invoice document to a file.
type Renderer interface {
	WriteFile(path string, inv *domain.Invoice) error
}

// Options carries the invoice defaults from config.
type Options struct {
	NumberPrefix   string
	Currency       string
	RememberIssuer bool
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	profileRepo repository.ProfileRepository
	renderer    Renderer
	validator   *validation.Validator
	logger      *zap.Logger

	mu   sync.RWMutex
	opts Options
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	profileRepo repository.ProfileRepository,
	renderer Renderer,
	opts Options,
	logger *zap.Logger,
) InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		profileRepo: profileRepo,
		renderer:    renderer,
		validator:   validation.New(),
		opts:        opts.withDefaults(),
		logger:      logger,
	}
}

func (o Options) withDefaults() Options {
	if o.NumberPrefix == "" {
		o.NumberPrefix = "INV"
	}
	return o
}

func (s *invoiceService) SetOptions(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts.withDefaults()
}

func (s *invoiceService) options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

func (s *invoiceService) Issue(ctx context.Context, draft domain.Draft) (*domain.Invoice, error) {
	draft = draft.Clone()
	draft.Issuer = draft.Issuer.Normalize()
	draft.Client = draft.Client.Normalize()
	for i := range draft.Positions {
		draft.Positions[i].Recalculate()
	}

	if errs := s.validator.Draft(draft); !errs.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDraft, errs)
	}

	opts := s.options()
	invoice := domain.NewInvoice("", draft, opts.Currency)
	if err := s.invoiceRepo.CreateNumbered(ctx, invoice, opts.NumberPrefix); err != nil {
		return nil, err
	}

	s.logger.Info("invoice issued",
		zap.Int64("id", invoice.ID),
		zap.String("number", invoice.Number),
		zap.String("gross", invoice.GrossTotal.StringFixed(2)),
		zap.Int("positions", len(invoice.Draft.Positions)),
	)

	if opts.RememberIssuer {
		// the invoice is stored; a stale profile only affects prefill
		if err := s.profileRepo.Save(ctx, draft.Issuer); err != nil {
			s.logger.Warn("failed to remember issuer", zap.Error(err))
		}
	}

	return invoice, nil
}

func (s *invoiceService) Export(ctx context.Context, id int64, dir string) (string, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, ExportFileName(invoice))
	if err := s.renderer.WriteFile(path, invoice); err != nil {
		return "", fmt.Errorf("failed to export invoice %s: %w", invoice.Number, err)
	}

	s.logger.Info("invoice exported", zap.String("number", invoice.Number), zap.String("path", path))
	return path, nil
}

// ExportFileName derives a filesystem-safe PDF name from number and client.
func ExportFileName(inv *domain.Invoice) string {
	return slug.Make(inv.Number+" "+inv.Draft.Client.ClientName) + ".pdf"
}

func (s *invoiceService) Get(ctx context.Context, id int64) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: %d", ErrInvoiceNotFound, id)
	}
	return invoice, nil
}

func (s *invoiceService) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvoiceNotFound, number)
	}
	return invoice, nil
}

func (s *invoiceService) Find(ctx context.Context, ref string) (*domain.Invoice, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.Get(ctx, id)
	}
	return s.GetByNumber(ctx, ref)
}

func (s *invoiceService) List(ctx context.Context, status *domain.InvoiceStatus) ([]*domain.Invoice, error) {
	return s.invoiceRepo.List(ctx, status)
}

func (s *invoiceService) MarkSent(ctx context.Context, id int64, at time.Time) (*domain.Invoice, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.MarkSent(at); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.UpdateStatus(ctx, invoice); err != nil {
		return nil, err
	}
	s.logger.Info("invoice sent", zap.String("number", invoice.Number))
	return invoice, nil
}

func (s *invoiceService) MarkPaid(ctx context.Context, id int64, at time.Time) (*domain.Invoice, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceStatusSent && invoice.Status != domain.InvoiceStatusOverdue {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotSent, invoice.Number, invoice.Status)
	}

	invoice.MarkPaid(at)
	if err := s.invoiceRepo.UpdateStatus(ctx, invoice); err != nil {
		return nil, err
	}
	s.logger.Info("invoice paid", zap.String("number", invoice.Number))
	return invoice, nil
}

func (s *invoiceService) CheckOverdue(ctx context.Context, now time.Time) ([]*domain.Invoice, error) {
	sentStatus := domain.InvoiceStatusSent
	invoices, err := s.invoiceRepo.List(ctx, &sentStatus)
	if err != nil {
		return nil, err
	}

	overdue := make([]*domain.Invoice, 0)
	for _, invoice := range invoices {
		if !invoice.IsOverdue(now) {
			continue
		}
		invoice.Status = domain.InvoiceStatusOverdue
		if err := s.invoiceRepo.UpdateStatus(ctx, invoice); err != nil {
			return nil, err
		}
		overdue = append(overdue, invoice)
	}

	if len(overdue) > 0 {
		s.logger.Info("invoices overdue", zap.Int("count", len(overdue)))
	}
	return overdue, nil
}

func (s *invoiceService) LastIssuer(ctx context.Context) (*domain.Issuer, error) {
	return s.profileRepo.Get(ctx)
}
