package physics_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pingsim/internal/physics"
)

const fixed = 1.0 / 60

func floorOrientation() mgl64.Quat {
	return mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{-1, 0, 0})
}

func addFloor(w *physics.World) *physics.Body {
	floor, err := w.AddBody(physics.BodyOptions{
		Shape:       physics.NewPlane(),
		Orientation: floorOrientation(),
	})
	Expect(err).NotTo(HaveOccurred())
	return floor
}

func addSphere(w *physics.World, pos mgl64.Vec3) *physics.Body {
	b, err := w.AddBody(physics.BodyOptions{
		Shape:    physics.NewSphere(0.3),
		Mass:     1,
		Position: pos,
	})
	Expect(err).NotTo(HaveOccurred())
	return b
}

func addPaddle(w *physics.World, y float64) *physics.Body {
	b, err := w.AddBody(physics.BodyOptions{
		Shape:    physics.NewBox(mgl64.Vec3{3, 0.2, 2}),
		Position: mgl64.Vec3{0, y, 0},
	})
	Expect(err).NotTo(HaveOccurred())
	return b
}

func stepFor(w *physics.World, seconds float64) {
	for i := 0; i < int(seconds/fixed); i++ {
		_, err := w.Step(fixed, fixed, 3)
		Expect(err).NotTo(HaveOccurred())
	}
}

var _ = Describe("World", func() {
	var w *physics.World

	BeforeEach(func() {
		w = physics.NewWorld(physics.DefaultConfig())
	})

	Describe("a sphere dropped on the floor", func() {
		var (
			floor, ball *physics.Body
			events      []physics.ContactEvent
		)

		BeforeEach(func() {
			floor = addFloor(w)
			ball = addSphere(w, mgl64.Vec3{0, 3, 0})
			events = nil
			floor.OnContact(func(ev physics.ContactEvent) { events = append(events, ev) })
		})

		It("speeds up monotonically and reports the first contact once", func() {
			prev := 0.0
			for i := 0; i < 200 && len(events) == 0; i++ {
				_, err := w.Step(fixed, fixed, 3)
				Expect(err).NotTo(HaveOccurred())
				if len(events) == 0 {
					Expect(ball.Velocity.Y()).To(BeNumerically("<", prev))
					prev = ball.Velocity.Y()
				}
			}

			Expect(events).To(HaveLen(1))
			ev := events[0]
			Expect(ev.Other(floor)).To(BeIdenticalTo(ball))
			Expect(ev.ImpactVelocity).To(BeNumerically(">", 6.5))
			Expect(ev.ImpactVelocity).To(BeNumerically("<", 8))
			Expect(ball.Position.Y()).To(BeNumerically("~", 0.3, 0.2))

			_, err := w.Step(fixed, fixed, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(1))
		})

		It("bounces with the default restitution", func() {
			for i := 0; i < 200 && len(events) == 0; i++ {
				w.Step(fixed, fixed, 3)
			}
			Expect(ball.Velocity.Y()).To(BeNumerically(">", 0))
			Expect(ball.Velocity.Y()).To(BeNumerically("~", 0.7*events[0].ImpactVelocity, 1e-6))
		})

		It("loses speed on every bounce of a bouncy surface and comes to rest", func() {
			w.SetDefaultContact(0.1, 0.92)
			stepFor(w, 25)

			Expect(ball.SleepState()).To(Equal(physics.Sleeping))
			Expect(len(events)).To(BeNumerically(">", 10))
			for i := 1; i < len(events); i++ {
				Expect(events[i].ImpactVelocity).To(BeNumerically("<", events[i-1].ImpactVelocity),
					"bounce %d", i)
			}
			Expect(events[len(events)-1].ImpactVelocity).To(BeNumerically("<", 1))
		})

		It("settles and falls asleep while staying in contact", func() {
			stepFor(w, 8)
			Expect(ball.SleepState()).To(Equal(physics.Sleeping))
			Expect(ball.Position.Y()).To(BeNumerically("~", 0.3, 0.03))
			Expect(w.ContactCount()).To(BeNumerically(">", 0))
		})

		It("uses a registered contact material", func() {
			ballMat := physics.NewMaterial("ball")
			floorMat := physics.NewMaterial("floor")
			w = physics.NewWorld(physics.DefaultConfig())
			f, err := w.AddBody(physics.BodyOptions{Shape: physics.NewPlane(), Orientation: floorOrientation(), Material: floorMat})
			Expect(err).NotTo(HaveOccurred())
			b, err := w.AddBody(physics.BodyOptions{Shape: physics.NewSphere(0.3), Mass: 1, Position: mgl64.Vec3{0, 3, 0}, Material: ballMat})
			Expect(err).NotTo(HaveOccurred())
			w.AddContactMaterial(physics.NewContactMaterial(ballMat, floorMat, 0, 0))

			hits := 0
			f.OnContact(func(physics.ContactEvent) { hits++ })
			for i := 0; i < 200 && hits == 0; i++ {
				w.Step(fixed, fixed, 3)
			}
			Expect(hits).To(Equal(1))
			Expect(b.Velocity.Y()).To(BeNumerically("~", 0, 1e-6))
		})
	})

	Describe("static bodies", func() {
		It("never move under stepping alone", func() {
			floor := addFloor(w)
			paddle := addPaddle(w, 1.5)
			addSphere(w, mgl64.Vec3{0.2, 3, -0.1})
			addSphere(w, mgl64.Vec3{-0.4, 3.5, 0.3})
			floorQ := floor.Orientation

			stepFor(w, 5)

			Expect(paddle.Position).To(Equal(mgl64.Vec3{0, 1.5, 0}))
			Expect(paddle.Orientation).To(Equal(mgl64.QuatIdent()))
			Expect(paddle.Velocity).To(Equal(mgl64.Vec3{}))
			Expect(floor.Position).To(Equal(mgl64.Vec3{}))
			Expect(floor.Orientation).To(Equal(floorQ))
		})
	})

	Describe("kinematic overrides", func() {
		var paddle, ball *physics.Body

		BeforeEach(func() {
			addFloor(w)
			paddle = addPaddle(w, 1.5)
			ball = addSphere(w, mgl64.Vec3{0, 1.995, 0})
			stepFor(w, 2.5)
			Expect(ball.SleepState()).To(Equal(physics.Sleeping))
		})

		It("wakes sleeping bodies when sleeping is turned off", func() {
			w.SetAllowSleep(false)
			Expect(ball.SleepState()).To(Equal(physics.Awake))

			stepFor(w, 2.5)
			Expect(ball.SleepState()).To(Equal(physics.Awake))
			Expect(ball.Position.Y()).To(BeNumerically("~", 2.0, 0.03))
		})

		It("wakes a sleeping body the paddle is pushed into", func() {
			y := ball.Position.Y()
			paddle.SetPosition(mgl64.Vec3{0, 1.7, 0})
			stepFor(w, fixed)
			Expect(ball.SleepState()).NotTo(Equal(physics.Sleeping))
			Expect(ball.Position.Y()).To(BeNumerically(">", y))
		})

		It("wakes a sleeping body whose support moved away", func() {
			y := ball.Position.Y()
			paddle.SetPosition(mgl64.Vec3{0, 1.0, 0})
			stepFor(w, 0.25)
			Expect(ball.SleepState()).NotTo(Equal(physics.Sleeping))
			Expect(ball.Position.Y()).To(BeNumerically("<", y-0.2))
		})
	})

	Describe("Step", func() {
		It("caps sub-steps and drops the excess", func() {
			n, err := w.Step(fixed, 1.0, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(3))
			Expect(w.Steps()).To(BeEquivalentTo(3))
			Expect(w.DroppedTime()).To(BeEquivalentTo(1))

			n, err = w.Step(fixed, fixed/2, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeNumerically("<=", 1))
		})

		It("accumulates partial frames", func() {
			n, _ := w.Step(fixed, fixed/2, 3)
			Expect(n).To(Equal(0))
			n, _ = w.Step(fixed, fixed/2, 3)
			Expect(n).To(Equal(1))
		})

		It("takes exactly one sub-step for a zero delta", func() {
			n, err := w.Step(fixed, 0, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
			Expect(w.Time()).To(BeNumerically("~", fixed, 1e-12))
		})

		DescribeTable("rejects invalid arguments without side effects",
			func(step, delta float64, maxSub int) {
				ball := addSphere(w, mgl64.Vec3{0, 3, 0})
				_, err := w.Step(step, delta, maxSub)
				Expect(err).To(MatchError(physics.ErrInvalidStep))
				Expect(w.Time()).To(BeZero())
				Expect(ball.Position).To(Equal(mgl64.Vec3{0, 3, 0}))
			},
			Entry("zero step", 0.0, fixed, 3),
			Entry("negative step", -fixed, fixed, 3),
			Entry("NaN step", math.NaN(), fixed, 3),
			Entry("negative delta", fixed, -0.1, 3),
			Entry("NaN delta", fixed, math.NaN(), 3),
			Entry("infinite delta", fixed, math.Inf(1), 3),
			Entry("no sub-steps", fixed, fixed, 0),
		)
	})

	Describe("identical spawns", func() {
		It("simulates both bodies independently", func() {
			addFloor(w)
			a := addSphere(w, mgl64.Vec3{0.1, 3, 0.1})
			b := addSphere(w, mgl64.Vec3{0.1, 3, 0.1})
			Expect(a).NotTo(BeIdenticalTo(b))
			Expect(a.ID()).NotTo(Equal(b.ID()))

			stepFor(w, 0.5)
			Expect(a.Position).NotTo(Equal(b.Position))
			Expect(a.Position.Sub(b.Position).Len()).To(BeNumerically(">", 0.3))

			a.Velocity = mgl64.Vec3{5, 0, 0}
			Expect(b.Velocity.X()).NotTo(Equal(5.0))
		})
	})

	Describe("AddBody", func() {
		It("assigns increasing ids and looks bodies up", func() {
			f := addFloor(w)
			s := addSphere(w, mgl64.Vec3{0, 3, 0})
			Expect(s.ID()).To(BeNumerically(">", f.ID()))
			got, ok := w.Body(s.ID())
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(s))
			Expect(w.Bodies()).To(HaveLen(2))
			Expect(f.Type()).To(Equal(physics.Static))
			Expect(s.Type()).To(Equal(physics.Dynamic))
			Expect(s.Material()).To(BeIdenticalTo(w.DefaultMaterial()))
		})

		DescribeTable("rejects invalid options",
			func(opts physics.BodyOptions) {
				_, err := w.AddBody(opts)
				Expect(err).To(MatchError(physics.ErrInvalidBody))
				Expect(w.Bodies()).To(BeEmpty())
			},
			Entry("zero shape", physics.BodyOptions{Mass: 1}),
			Entry("negative radius", physics.BodyOptions{Shape: physics.NewSphere(-1), Mass: 1}),
			Entry("flat box", physics.BodyOptions{Shape: physics.NewBox(mgl64.Vec3{1, 0, 1})}),
			Entry("negative mass", physics.BodyOptions{Shape: physics.NewSphere(1), Mass: -1}),
			Entry("dynamic plane", physics.BodyOptions{Shape: physics.NewPlane(), Mass: 1}),
			Entry("NaN position", physics.BodyOptions{Shape: physics.NewSphere(1), Position: mgl64.Vec3{math.NaN(), 0, 0}}),
		)
	})
})
