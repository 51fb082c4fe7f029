package normalizer

import (
	"fmt"
	"time"

	"showfmt/internal/models"
)

// Options configures a Processor. Zero values select the defaults.
type Options struct {
	Clock          func() time.Time
	Generator      string
	DefaultCountry string
	StrictDates    bool
}

// Processor runs the single-document pipeline: extract, assemble, validate.
// It keeps no per-document state and is safe for concurrent use.
type Processor struct {
	extractor *Extractor
	assembler *Assembler
	validator *Validator
	clock     func() time.Time
}

// NewProcessor creates a new processor instance.
func NewProcessor(opts Options) *Processor {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Processor{
		extractor: NewExtractor(NewFieldExtractor(opts.DefaultCountry, opts.StrictDates)),
		assembler: NewAssembler(opts.Generator),
		validator: NewValidator(),
		clock:     clock,
	}
}

// Normalize converts one raw record into a validated canonical document. filename is
// recorded in the provenance. Apart from timestamps, the result depends only on rec and filename.
func (p *Processor) Normalize(rec RawRecord, filename string) (*models.CanonicalShow, error) {
	now := p.clock().UTC()

	extracted, err := p.extractor.Extract(rec, filename, now)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	doc := p.assembler.Assemble(extracted, now)

	if err := p.validator.ValidateShow(doc); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return doc, nil
}

// Validator returns the validator used by the pipeline.
func (p *Processor) Validator() *Validator {
	return p.validator
}
