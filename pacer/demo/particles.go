package demo

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultGravity     = 30 // cells per second squared
	defaultRestitution = 0.85
	maxSpawnSpeed      = 25
	restSpeed          = 0.5
)

type particle struct {
	pos  mgl32.Vec2
	prev mgl32.Vec2
	vel  mgl32.Vec2
}

// System is a box of bouncing particles advanced in fixed steps. Positions
// are in canvas cells; the previous position of every particle is kept so
// frames can be drawn between two steps.
type System struct {
	particles   []particle
	bounds      mgl32.Vec2
	gravity     mgl32.Vec2
	restitution float32
	rng         *rand.Rand
}

func NewSystem(seed int64) *System {
	return &System{
		gravity:     mgl32.Vec2{0, defaultGravity},
		restitution: defaultRestitution,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Resize sets the box size and pulls every particle back inside it.
func (s *System) Resize(width, height float32) {
	s.bounds = mgl32.Vec2{math32.Max(width, 0), math32.Max(height, 0)}
	for i := range s.particles {
		p := &s.particles[i]
		p.pos = s.clamp(p.pos)
		p.prev = p.pos
	}
}

func (s *System) Bounds() mgl32.Vec2 {
	return s.bounds
}

// Spawn adds n particles at random positions with random velocities.
func (s *System) Spawn(n int) {
	for i := 0; i < n; i++ {
		pos := mgl32.Vec2{s.rng.Float32() * s.bounds.X(), s.rng.Float32() * s.bounds.Y()}
		s.particles = append(s.particles, particle{
			pos:  pos,
			prev: pos,
			vel:  s.randomVelocity(),
		})
	}
}

func (s *System) Len() int {
	return len(s.particles)
}

// Step advances every particle by dt seconds.
func (s *System) Step(dt float32) {
	for i := range s.particles {
		p := &s.particles[i]
		p.prev = p.pos
		p.vel = p.vel.Add(s.gravity.Mul(dt))
		p.pos = p.pos.Add(p.vel.Mul(dt))
		s.bounce(p)
	}
}

// Freeze drops the motion between the previous and current step, so an
// interpolated frame shows the particles standing still.
func (s *System) Freeze() {
	for i := range s.particles {
		s.particles[i].prev = s.particles[i].pos
	}
}

// Each calls fn with every particle position interpolated by alpha in [0, 1]
// between the previous and the current step.
func (s *System) Each(alpha float32, fn func(pos, vel mgl32.Vec2)) {
	alpha = math32.Max(0, math32.Min(alpha, 1))
	for _, p := range s.particles {
		fn(p.prev.Add(p.pos.Sub(p.prev).Mul(alpha)), p.vel)
	}
}

func (s *System) bounce(p *particle) {
	for axis := 0; axis < 2; axis++ {
		limit := s.bounds[axis]
		switch {
		case p.pos[axis] < 0:
			p.pos[axis] = -p.pos[axis]
			p.vel[axis] = -p.vel[axis] * s.restitution
		case p.pos[axis] > limit:
			p.pos[axis] = 2*limit - p.pos[axis]
			p.vel[axis] = -p.vel[axis] * s.restitution
		}
	}
	p.pos = s.clamp(p.pos)

	// resting on the floor: kick it back up
	if p.pos.Y() >= s.bounds.Y()-restSpeed && p.vel.Len() < restSpeed {
		p.vel = s.randomVelocity()
		p.vel[1] = -math32.Abs(p.vel[1]) - maxSpawnSpeed/2
	}
}

func (s *System) clamp(v mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		mgl32.Clamp(v.X(), 0, s.bounds.X()),
		mgl32.Clamp(v.Y(), 0, s.bounds.Y()),
	}
}

func (s *System) randomVelocity() mgl32.Vec2 {
	angle := s.rng.Float32() * 2 * math32.Pi
	speed := s.rng.Float32() * maxSpawnSpeed
	return mgl32.Vec2{math32.Cos(angle) * speed, math32.Sin(angle) * speed}
}
