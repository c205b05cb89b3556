package minimap

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/minimap/geom"
)

type focusKind int

const (
	focusNone focusKind = iota
	focusTransform
	focusAimPoint
)

// focus is the per-frame resolution of the host's focus target.
type focus struct {
	kind        focusKind
	position    mgl64.Vec3
	orientation mgl64.Quat
}

// resolveFocus checks the target's capabilities once. An aim-point-only
// target borrows its orientation from the primary camera, which is only an
// approximation of the subject's facing while the camera free-looks.
func resolveFocus(target any, cameraForward mgl64.Vec3) focus {
	switch t := target.(type) {
	case nil:
		return focus{kind: focusNone}
	case TransformSource:
		return focus{
			kind:        focusTransform,
			position:    t.WorldPosition(),
			orientation: t.WorldQuaternion(),
		}
	case AimPointSource:
		return focus{
			kind:        focusAimPoint,
			position:    t.AimPoint(),
			orientation: geom.FacingQuat(cameraForward),
		}
	default:
		return focus{kind: focusNone}
	}
}

// Update tracks the focus target, reconciles vehicle markers and renders the
// minimap pass. Without a focus target the camera and player marker keep
// their last state.
func (m *MiniMap) Update() {
	if m == nil || m.closed {
		return
	}

	camForward := m.world.CameraForward()
	f := resolveFocus(m.world.FocusTarget(), camForward)
	if f.kind != focusNone && geom.Finite(f.position) {
		m.trackSubject(f, camForward)
	}

	m.reconcileVehicles()
	m.render()
}

func (m *MiniMap) trackSubject(f focus, camForward mgl64.Vec3) {
	x, z := f.position.X(), f.position.Z()

	m.camera.Position = mgl64.Vec3{x, m.cfg.CameraHeight, z}
	if up, ok := geom.FlattenXZ(camForward); ok {
		m.camera.Up = up
	}
	m.camera.LookAt(mgl64.Vec3{x, 0, z})

	m.playerMarker.Position = mgl64.Vec3{x, m.cfg.PlayerElevation, z}
	if yaw, ok := geom.Yaw(f.orientation); ok && !math.IsNaN(yaw) {
		m.heading = yaw
	}
	m.playerMarker.Rotation = geom.YawQuat(m.heading)
}

// render draws the shared graph through the overhead camera. It only reads
// scene state.
func (m *MiniMap) render() {
	m.surface.Render(m.world.Scene(), m.camera)
}
