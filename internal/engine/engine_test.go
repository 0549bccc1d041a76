package engine_test

import (
	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/constraints"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/engine"
	"github.com/san-kum/physim/internal/event"
	"github.com/san-kum/physim/internal/forces"
	"github.com/san-kum/physim/internal/vec"
)

// manualClock advances only when told to.
type manualClock struct{ now float64 }

func (c *manualClock) read() float64       { return c.now }
func (c *manualClock) advance(ms float64) { c.now += ms }

// pushOnce applies a force on its first call only.
type pushOnce struct {
	force vec.Vector3
	done  bool
}

func (p *pushOnce) ApplyForce(targets []body.Entity, _ body.Entity) {
	if p.done {
		return
	}
	for _, t := range targets {
		t.Point().ApplyForce(p.force)
	}
	p.done = true
}

func (p *pushOnce) Energy([]body.Entity, body.Entity) float64 { return 0 }

// recorder is a constraint that logs its name on every call.
type recorder struct {
	name string
	log  *[]string
}

func (r *recorder) ApplyConstraint([]body.Entity, body.Entity, float64) {
	*r.log = append(*r.log, r.name)
}

func (r *recorder) Energy([]body.Entity, body.Entity) float64 { return 0 }

type both struct{ recorder }

func (both) ApplyForce([]body.Entity, body.Entity) {}

func newParticle(opts body.Options) *body.Particle {
	p, err := body.NewParticle(opts)
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("Engine", func() {
	var (
		clock *manualClock
		eng   *engine.Engine
	)

	build := func(mutate func(*engine.Options)) {
		opts := engine.DefaultOptions()
		if mutate != nil {
			mutate(&opts)
		}
		var err error
		eng, err = engine.New(opts, engine.WithClock(clock.read))
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		clock = &manualClock{}
		build(nil)
	})

	Describe("options", func() {
		It("rejects invalid values", func() {
			for _, mutate := range []func(*engine.Options){
				func(o *engine.Options) { o.Timestep = 0 },
				func(o *engine.Options) { o.ConstraintSteps = -1 },
				func(o *engine.Options) { o.MaxTimeStep = 1 },
				func(o *engine.Options) { o.SleepTolerance = -1 },
				func(o *engine.Options) { o.TimestepMode = "adaptive" },
			} {
				opts := engine.DefaultOptions()
				mutate(&opts)
				_, err := engine.New(opts)
				Expect(errors.Is(err, dynamo.ErrInvalidOption)).To(BeTrue())
			}
		})
	})

	Describe("Integrate", func() {
		It("integrates velocity before position", func() {
			p := newParticle(body.Options{Mass: 1})
			eng.AddBody(p)
			_, err := eng.Attach(&pushOnce{force: vec.New(10, 0, 0)}, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			eng.Integrate(1)

			Expect(p.Velocity).To(Equal(vec.New(10, 0, 0)))
			Expect(p.Position).To(Equal(vec.New(10, 0, 0)))
			Expect(p.Force).To(Equal(vec.Zero))
		})

		It("runs constraints in reverse attach order on every pass", func() {
			build(func(o *engine.Options) { o.ConstraintSteps = 2 })
			var log []string
			for _, name := range []string{"a", "b", "c"} {
				_, err := eng.Attach(&recorder{name: name, log: &log}, nil, nil)
				Expect(err).NotTo(HaveOccurred())
			}

			eng.Integrate(1)

			Expect(log).To(Equal([]string{"c", "b", "a", "c", "b", "a"}))
		})

		It("emits update from every body", func() {
			p := newParticle(body.Options{})
			b, err := body.NewBody(body.Options{})
			Expect(err).NotTo(HaveOccurred())
			eng.AddBody(p)
			eng.AddBody(b)

			var updated []any
			p.On(event.Update, func(x any) { updated = append(updated, x) })
			b.On(event.Update, func(x any) { updated = append(updated, x) })

			eng.Integrate(1)
			Expect(updated).To(HaveLen(2))
		})

		It("spins rigid bodies under torque", func() {
			b, err := body.NewBody(body.Options{})
			Expect(err).NotTo(HaveOccurred())
			eng.AddBody(b)
			b.ApplyTorque(vec.New(0, 0, 1))

			eng.Integrate(1)

			Expect(b.AngularVelocity.Z).To(BeNumerically(">", 0))
			Expect(b.Orientation.Z).NotTo(BeZero())
		})

		It("keeps a reflecting wall's half-space", func() {
			p := newParticle(body.Options{Position: vec.New(3, 0, 0), Velocity: vec.New(-0.7, 0, 0)})
			eng.AddBody(p)
			w, err := constraints.NewWall(constraints.DefaultWallOptions())
			Expect(err).NotTo(HaveOccurred())
			_, err = eng.Attach(w, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 40; i++ {
				eng.Integrate(1)
			}
			Expect(w.SignedDistance(p)).To(BeNumerically(">=", -w.Options().Slop))
			Expect(p.Velocity.X).To(BeNumerically(">", 0))
		})

		It("never gains energy under pure drag", func() {
			p := newParticle(body.Options{Velocity: vec.New(3, -2, 1)})
			eng.AddBody(p)
			drag, err := forces.NewDrag(forces.DragOptions{Strength: 0.05})
			Expect(err).NotTo(HaveOccurred())
			_, err = eng.Attach(drag, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			prev := eng.Energy()
			for i := 0; i < 100; i++ {
				eng.Integrate(1)
				Expect(eng.Energy()).To(BeNumerically("<=", prev))
				prev = eng.Energy()
			}
		})
	})

	Describe("attach and detach", func() {
		It("rejects agents that are both or neither kind", func() {
			_, err := eng.Attach(&both{}, nil, nil)
			Expect(errors.Is(err, dynamo.ErrInvalidAgent)).To(BeTrue())
			_, err = eng.Attach(struct{}{}, nil, nil)
			Expect(errors.Is(err, dynamo.ErrInvalidAgent)).To(BeTrue())
		})

		It("reports a missing id on the second detach", func() {
			id, err := eng.Attach(&pushOnce{}, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(eng.Detach(id)).To(Succeed())
			err = eng.Detach(id)
			Expect(errors.Is(err, dynamo.ErrAgentNotFound)).To(BeTrue())
			err = eng.Detach(id)
			Expect(errors.Is(err, dynamo.ErrAgentNotFound)).To(BeTrue())

			_, err = eng.Agent(id)
			Expect(errors.Is(err, dynamo.ErrAgentNotFound)).To(BeTrue())
			_, err = eng.AgentEnergy(id)
			Expect(errors.Is(err, dynamo.ErrAgentNotFound)).To(BeTrue())
			Expect(errors.Is(eng.AttachTo(id, newParticle(body.Options{})), dynamo.ErrAgentNotFound)).To(BeTrue())
		})

		It("defaults targets to every registered body", func() {
			a := newParticle(body.Options{})
			b := newParticle(body.Options{})
			eng.AddBody(a)
			eng.AddBody(b)
			id, err := eng.Attach(&pushOnce{}, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			targets, err := eng.Targets(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(targets).To(ConsistOf(body.Entity(a), body.Entity(b)))
		})

		It("edits targets and detaches through the source", func() {
			src := newParticle(body.Options{})
			a := newParticle(body.Options{})
			b := newParticle(body.Options{})
			id, err := eng.Attach(&pushOnce{}, []body.Entity{a}, src)
			Expect(err).NotTo(HaveOccurred())

			Expect(eng.AttachTo(id, b)).To(Succeed())
			Expect(eng.AttachTo(id, b)).To(Succeed())
			targets, _ := eng.Targets(id)
			Expect(targets).To(HaveLen(2))

			Expect(eng.DetachFrom(id, a)).To(Succeed())
			Expect(errors.Is(eng.DetachFrom(id, a), dynamo.ErrBodyNotFound)).To(BeTrue())

			Expect(eng.DetachFrom(id, src)).To(Succeed())
			_, err = eng.Agent(id)
			Expect(errors.Is(err, dynamo.ErrAgentNotFound)).To(BeTrue())
		})

		It("detaches everything", func() {
			ids, err := eng.AttachAll([]any{&pushOnce{}, &pushOnce{}}, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(HaveLen(2))
			eng.DetachAll()
			for _, id := range ids {
				_, err := eng.Agent(id)
				Expect(errors.Is(err, dynamo.ErrAgentNotFound)).To(BeTrue())
			}
		})

		It("sums agent potential into the engine energy", func() {
			anchor := vec.Zero
			spring, err := forces.NewSpring(forces.SpringOptions{Period: 300, Anchor: &anchor})
			Expect(err).NotTo(HaveOccurred())
			p := newParticle(body.Options{Position: vec.New(10, 0, 0)})
			eng.AddBody(p)
			id, err := eng.Attach(spring, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			pe, err := eng.AgentEnergy(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(pe).To(BeNumerically(">", 0))
			Expect(eng.Energy()).To(BeNumerically("~", pe, 1e-12))
		})
	})

	Describe("bodies", func() {
		It("routes rigid bodies separately", func() {
			p := newParticle(body.Options{})
			r, err := body.NewRectangle(body.Options{}, 2, 1)
			Expect(err).NotTo(HaveOccurred())
			eng.AddBody(p)
			eng.AddBody(r)
			eng.AddBody(p)

			Expect(eng.Particles()).To(HaveLen(1))
			Expect(eng.Bodies()).To(HaveLen(1))
			Expect(eng.ParticlesAndBodies()).To(Equal([]body.Entity{p, r}))
		})

		It("scrubs removed bodies from every binding", func() {
			a := newParticle(body.Options{})
			b := newParticle(body.Options{})
			src := newParticle(body.Options{})
			eng.AddBody(a)
			eng.AddBody(b)
			eng.AddBody(src)
			shared, err := eng.Attach(&pushOnce{}, []body.Entity{a, b}, nil)
			Expect(err).NotTo(HaveOccurred())
			sourced, err := eng.Attach(&pushOnce{}, []body.Entity{a}, src)
			Expect(err).NotTo(HaveOccurred())

			Expect(eng.RemoveBody(b)).To(Succeed())
			Expect(eng.RemoveBody(src)).To(Succeed())

			targets, err := eng.Targets(shared)
			Expect(err).NotTo(HaveOccurred())
			Expect(targets).To(Equal([]body.Entity{a}))
			_, err = eng.Agent(sourced)
			Expect(errors.Is(err, dynamo.ErrAgentNotFound)).To(BeTrue())

			Expect(errors.Is(eng.RemoveBody(b), dynamo.ErrBodyNotFound)).To(BeTrue())
		})
	})

	Describe("Step", func() {
		var p *body.Particle

		BeforeEach(func() {
			p = newParticle(body.Options{Velocity: vec.New(1, 0, 0)})
			eng.AddBody(p)
		})

		It("drops frames shorter than MinTimeStep", func() {
			clock.advance(5)
			eng.Step()
			Expect(p.Position.X).To(BeZero())
		})

		It("integrates with the fixed timestep", func() {
			clock.advance(100)
			eng.Step()
			Expect(p.Position.X).To(BeNumerically("~", engine.DefaultTimestep, 1e-12))
		})

		It("clamps measured frames to MaxTimeStep", func() {
			build(func(o *engine.Options) {
				o.TimestepMode = engine.Measured
				o.MaxTimeStep = 20
			})
			eng.AddBody(p)

			clock.advance(12)
			eng.Step()
			Expect(p.Position.X).To(BeNumerically("~", 12, 1e-12))

			clock.advance(500)
			eng.Step()
			Expect(p.Position.X).To(BeNumerically("~", 32, 1e-12))
		})

		It("emits update after integrating", func() {
			updates := 0
			eng.On(event.Update, func(any) { updates++ })
			clock.advance(16)
			eng.Step()
			Expect(updates).To(Equal(1))
		})

		Context("with auto sleep", func() {
			BeforeEach(func() {
				build(func(o *engine.Options) {
					o.AutoSleep = true
					o.SleepTolerance = 1e-3
				})
				p = newParticle(body.Options{Velocity: vec.New(1e-3, 0, 0)})
				eng.AddBody(p)
			})

			It("sleeps once energy falls below the tolerance", func() {
				ended := 0
				eng.On(event.End, func(any) { ended++ })

				clock.advance(16)
				eng.Step()

				Expect(eng.IsSleeping()).To(BeTrue())
				Expect(p.IsSleeping()).To(BeTrue())
				Expect(ended).To(Equal(1))

				x := p.Position.X
				clock.advance(16)
				eng.Step()
				Expect(p.Position.X).To(Equal(x))
			})

			It("wakes when a body is pushed", func() {
				clock.advance(16)
				eng.Step()
				Expect(eng.IsSleeping()).To(BeTrue())

				started := 0
				eng.On(event.Start, func(any) { started++ })
				p.ApplyForce(vec.New(1, 0, 0))

				Expect(eng.IsSleeping()).To(BeFalse())
				Expect(started).To(Equal(1))
			})

			It("wakes when an attached agent changes", func() {
				drag, err := forces.NewDrag(forces.DragOptions{Strength: 0.01})
				Expect(err).NotTo(HaveOccurred())
				_, err = eng.Attach(drag, nil, nil)
				Expect(err).NotTo(HaveOccurred())

				clock.advance(16)
				eng.Step()
				Expect(eng.IsSleeping()).To(BeTrue())

				Expect(drag.SetOptions(forces.DragOptions{Strength: 0.02})).To(Succeed())
				Expect(eng.IsSleeping()).To(BeFalse())
			})
		})

		Context("with auto sleep under gravity", func() {
			BeforeEach(func() {
				build(func(o *engine.Options) { o.AutoSleep = true })
				p = newParticle(body.Options{Position: vec.New(0, 100, 0)})
				eng.AddBody(p)
			})

			It("keeps a falling body awake although its potential is negative", func() {
				gravity, err := forces.NewVectorField(forces.VectorFieldOptions{
					Strength:  0.002,
					Field:     forces.Constant,
					Direction: vec.UnitY,
				})
				Expect(err).NotTo(HaveOccurred())
				_, err = eng.Attach(gravity, []body.Entity{p}, nil)
				Expect(err).NotTo(HaveOccurred())

				for i := 0; i < 10; i++ {
					clock.advance(17)
					eng.Step()
				}

				Expect(eng.Energy()).To(BeNumerically("<", 0))
				Expect(eng.IsSleeping()).To(BeFalse())
				Expect(p.IsSleeping()).To(BeFalse())
				Expect(p.Velocity.Y).To(BeNumerically(">", 0.03))
			})
		})
	})
})
