package engine

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/treepack/internal/model"
	"github.com/piwi3910/treepack/internal/order"
)

// Optimizer runs the full packing pipeline: expand the block list, sort it,
// then pack it into a fixed or growing container.
type Optimizer struct {
	Settings model.PackSettings
	logger   *log.Logger
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger used for placement tracing.
func WithLogger(l *log.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an Optimizer for settings.
func New(settings model.PackSettings, opts ...Option) *Optimizer {
	o := &Optimizer{
		Settings: settings,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize expands specs, applies the configured order and packs the result.
func (o *Optimizer) Optimize(specs []model.BlockSpec) (model.PackResult, error) {
	blocks := model.Expand(specs)
	if err := order.Apply(o.Settings.Order, blocks, o.Settings.Seed); err != nil {
		return model.PackResult{}, err
	}
	o.logger.Debug("ordered blocks", "order", o.Settings.Order, "count", len(blocks))
	return o.Pack(blocks)
}

// Pack places blocks in the order given, without sorting them first.
func (o *Optimizer) Pack(blocks []model.Block) (model.PackResult, error) {
	p, err := o.newPacker(WithObserver(logObserver{logger: o.logger}))
	if err != nil {
		return model.PackResult{}, err
	}
	if err := p.Fit(blocks); err != nil {
		return model.PackResult{}, err
	}

	result := model.PackResult{
		Container: p.Root(),
		Blocks:    blocks,
		Regions:   p.Regions(),
		Growing:   p.Growing(),
		Order:     o.Settings.Order,
	}
	o.logger.Debug("packed",
		"container", result.Container.String(),
		"placed", len(result.Placed()),
		"unfit", len(result.Unfit()))
	return result, nil
}

func (o *Optimizer) newPacker(opts ...PackerOption) (*Packer, error) {
	if o.Settings.Size.Auto {
		return NewGrowing(opts...), nil
	}
	return NewFixed(o.Settings.Size.W, o.Settings.Size.H, opts...)
}

// logObserver writes packer events to a logger at debug level.
type logObserver struct {
	logger *log.Logger
}

func (l logObserver) OnPlace(index int, b model.Block) {
	l.logger.Debug("placed", "index", index, "size", b.SizeString(), "x", b.Fit.X, "y", b.Fit.Y)
}

func (l logObserver) OnGrow(index int, dir GrowDirection, root model.Rect) {
	l.logger.Debug("grew container", "index", index, "direction", dir.String(), "w", root.W, "h", root.H)
}

func (l logObserver) OnUnfit(index int, b model.Block) {
	l.logger.Debug("no room", "index", index, "size", b.SizeString())
}
