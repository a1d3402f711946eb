package mesh

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/orrery/internal/engine/gpu"
	"github.com/Faultbox/orrery/internal/engine/gpu/gputest"
	"github.com/Faultbox/orrery/pkg/math"
)

func TestGenerateSphereCounts(t *testing.T) {
	tests := []struct {
		radius          float32
		sectors, stacks int
	}{
		{1, DefaultSectors, DefaultStacks},
		{0.5, 8, 4},
		{250, 36, 18},
		{7, 3, 2},
	}

	for _, tt := range tests {
		g := GenerateSphere(tt.radius, tt.sectors, tt.stacks)

		wantVerts := (tt.stacks + 1) * (tt.sectors + 1)
		if g.VertexCount() != wantVerts {
			t.Errorf("r=%v %dx%d: vertices = %d, want %d", tt.radius, tt.sectors, tt.stacks, g.VertexCount(), wantVerts)
		}
		if len(g.Normals) != len(g.Positions) {
			t.Errorf("normals = %d floats, want %d", len(g.Normals), len(g.Positions))
		}
		if len(g.TexCoords) != wantVerts*2 {
			t.Errorf("texcoords = %d floats, want %d", len(g.TexCoords), wantVerts*2)
		}

		wantTris := 2 * tt.sectors * (tt.stacks - 1)
		if g.TriangleCount() != wantTris {
			t.Errorf("r=%v %dx%d: triangles = %d, want %d", tt.radius, tt.sectors, tt.stacks, g.TriangleCount(), wantTris)
		}

		for i, idx := range g.Indices {
			if int(idx) >= wantVerts {
				t.Fatalf("index[%d] = %d out of range (%d vertices)", i, idx, wantVerts)
			}
		}
	}
}

func TestGenerateSphereNormalsAreUnit(t *testing.T) {
	g := GenerateSphere(42, DefaultSectors, DefaultStacks)

	for i := 0; i < len(g.Normals); i += 3 {
		n := math.Vec3{X: g.Normals[i], Y: g.Normals[i+1], Z: g.Normals[i+2]}
		if l := n.Length(); gomath.Abs(float64(l)-1) > 1e-4 {
			t.Fatalf("normal %d length = %f, want 1", i/3, l)
		}
		p := math.Vec3{X: g.Positions[i], Y: g.Positions[i+1], Z: g.Positions[i+2]}
		if d := p.Length(); gomath.Abs(float64(d)-42) > 1e-2 {
			t.Fatalf("vertex %d distance = %f, want 42", i/3, d)
		}
	}
}

func TestGenerateSphereSeam(t *testing.T) {
	const sectors, stacks = 16, 8
	g := GenerateSphere(3, sectors, stacks)

	for i := 0; i <= stacks; i++ {
		first := i * (sectors + 1)
		last := first + sectors

		for c := 0; c < 3; c++ {
			a, b := g.Positions[first*3+c], g.Positions[last*3+c]
			if gomath.Abs(float64(a-b)) > 1e-4 {
				t.Errorf("stack %d: seam positions differ: %v vs %v", i, a, b)
			}
		}
		if g.TexCoords[first*2] != 0 || g.TexCoords[last*2] != 1 {
			t.Errorf("stack %d: seam u = (%v, %v), want (0, 1)", i, g.TexCoords[first*2], g.TexCoords[last*2])
		}
	}

	// North pole first, south pole last
	if g.Positions[2] != 3 {
		t.Errorf("first vertex z = %v, want 3", g.Positions[2])
	}
	if z := g.Positions[len(g.Positions)-1]; gomath.Abs(float64(z+3)) > 1e-4 {
		t.Errorf("last vertex z = %v, want -3", z)
	}
}

func TestGenerateSphereNoDegenerateTriangles(t *testing.T) {
	g := GenerateSphere(1, 12, 6)

	for i := 0; i < len(g.Indices); i += 3 {
		a, b, c := vertex(g, g.Indices[i]), vertex(g, g.Indices[i+1]), vertex(g, g.Indices[i+2])
		area := b.Sub(a).Cross(c.Sub(a)).Length()
		if area < 1e-6 {
			t.Fatalf("triangle %d is degenerate: %v %v %v", i/3, a, b, c)
		}
	}
}

func vertex(g Geometry, i uint32) math.Vec3 {
	return math.Vec3{X: g.Positions[i*3], Y: g.Positions[i*3+1], Z: g.Positions[i*3+2]}
}

func TestNewSphere(t *testing.T) {
	dev := gputest.New()
	s, err := NewSphere(dev, 5, gpu.NoTexture)
	if err != nil {
		t.Fatalf("NewSphere() error = %v", err)
	}

	// positions, normals, texcoords, indices
	if len(dev.LiveBuffers) != 4 {
		t.Errorf("buffers = %d, want 4", len(dev.LiveBuffers))
	}

	s.UseTexture(0)
	if dev.TextureAt(0) != 0 {
		t.Error("UseTexture without a texture must not bind anything")
	}

	if err := s.Draw(); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	d := dev.Draws[0]
	if !d.Indexed || d.Primitive != gpu.Triangles {
		t.Errorf("draw = %+v, want indexed triangles", d)
	}
	if int(d.Count) != 3*2*DefaultSectors*(DefaultStacks-1) {
		t.Errorf("index count = %d", d.Count)
	}

	s.SetTexture(9)
	s.UseTexture(0)
	if dev.TextureAt(0) != 9 {
		t.Errorf("bound texture = %d, want 9", dev.TextureAt(0))
	}

	s.Dispose()
	if len(dev.LiveBuffers) != 0 || len(dev.LiveVAOs) != 0 {
		t.Error("Dispose leaked GPU resources")
	}
}

func TestGenerateRing(t *testing.T) {
	for _, radius := range []float32{1, 38.5, 400} {
		verts := GenerateRing(radius, RingSides)
		if len(verts) != RingSides*3 {
			t.Fatalf("ring vertices = %d, want %d", len(verts)/3, RingSides)
		}
		for i := 0; i < len(verts); i += 3 {
			if verts[i+1] != 0 {
				t.Fatalf("vertex %d y = %v, want 0 (XZ plane)", i/3, verts[i+1])
			}
			d := math.Vec3{X: verts[i], Z: verts[i+2]}.Length()
			if gomath.Abs(float64(d-radius)) > 1e-3*float64(radius) {
				t.Fatalf("vertex %d distance = %v, want %v", i/3, d, radius)
			}
		}
	}
}

func TestRingUpdatePosition(t *testing.T) {
	dev := gputest.New()
	center := math.Vec3{X: 10, Z: -4}
	r, err := NewRing(dev, center, 20)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}
	defer r.Dispose()

	uploads := len(dev.Attributes)

	moved := math.Vec3{X: 100, Y: 0, Z: 50}
	r.UpdatePosition(moved)

	if r.Center() != moved {
		t.Errorf("Center() = %v, want %v", r.Center(), moved)
	}
	if r.Transform().Translation() != moved {
		t.Errorf("Transform translation = %v, want %v", r.Transform().Translation(), moved)
	}
	if len(dev.Attributes) != uploads {
		t.Error("UpdatePosition must not regenerate geometry")
	}

	// Every vertex in world space lies at radius from the current center
	verts := GenerateRing(20, RingSides)
	for i := 0; i < len(verts); i += 3 {
		w := r.Transform().TransformPoint(math.Vec3{X: verts[i], Y: verts[i+1], Z: verts[i+2]})
		if d := w.Distance(moved); gomath.Abs(float64(d-20)) > 1e-2 {
			t.Fatalf("world vertex %d at distance %v from center, want 20", i/3, d)
		}
	}

	r.Draw()
	if d := dev.Draws[0]; d.Primitive != gpu.LineLoop || d.Count != RingSides {
		t.Errorf("draw = %+v, want line loop of %d", d, RingSides)
	}
}

func TestAxis(t *testing.T) {
	dev := gputest.New()
	a, err := NewAxis(dev, DefaultAxisHalfLength)
	if err != nil {
		t.Fatalf("NewAxis() error = %v", err)
	}
	a.Draw()
	if d := dev.Draws[0]; d.Primitive != gpu.Lines || d.Count != 2 {
		t.Errorf("draw = %+v, want 2-vertex lines", d)
	}
	a.Dispose()
	if err := a.Draw(); err == nil {
		t.Error("Draw after Dispose should fail")
	}
}
