// Package filters narrows aggregated signals to the emitted set through an
// ordered list of admission stages.
package filters

import (
	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/strategy"
	"FinSignal/pkg/logger"
)

// Result is the outcome of one pipeline run.
type Result struct {
	Emitted []models.AggregatedSignal
	Dropped []Drop
}

// DroppedByStage counts drops per stage name.
func (r Result) DroppedByStage() map[string]int {
	out := make(map[string]int)
	for _, d := range r.Dropped {
		out[d.Stage]++
	}
	return out
}

type Pipeline struct {
	stages []Stage
	l      *logger.Logger
}

type Option func(*Pipeline)

func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) { p.l = l }
}

// WithStages replaces the default stage list.
func WithStages(stages ...Stage) Option {
	return func(p *Pipeline) { p.stages = stages }
}

// NewPipeline builds the standard six-stage pipeline. Cheap stages run
// before the ones that need the position snapshot.
func NewPipeline(s strategy.Settings, opts ...Option) *Pipeline {
	p := &Pipeline{
		stages: []Stage{
			ThresholdStage(s),
			ContradictionStage(),
			TriggerStage(s),
			StopDistanceStage(s),
			AlreadyHeldStage(),
			PositionCapStage(s),
		},
		l: logger.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Stages returns the stage names in evaluation order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, st := range p.stages {
		names[i] = st.Name()
	}
	return names
}

// Run applies every stage in order. Stages that read positions are not
// reached, and so never trigger a fetch, once no candidates remain.
func (p *Pipeline) Run(signals []models.AggregatedSignal, snap Snapshot) Result {
	res := Result{}
	candidates := append([]models.AggregatedSignal(nil), signals...)
	for _, st := range p.stages {
		if len(candidates) == 0 {
			break
		}
		var dropped []Drop
		candidates, dropped = st.Apply(candidates, snap)
		for _, d := range dropped {
			p.l.Debug("signal dropped",
				logger.String("stage", d.Stage),
				logger.String("instrument", d.Signal.Instrument),
				logger.String("reason", d.Reason),
			)
		}
		res.Dropped = append(res.Dropped, dropped...)
	}
	res.Emitted = candidates
	return res
}

// Filter runs the pipeline against a fixed position list.
func (p *Pipeline) Filter(signals []models.AggregatedSignal, positions []models.Position) []models.AggregatedSignal {
	emitted := p.Run(signals, StaticSnapshot(positions)).Emitted
	if emitted == nil {
		return []models.AggregatedSignal{}
	}
	return emitted
}
