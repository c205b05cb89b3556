package minimap

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/minimap/geom"
)

// reconcileVehicles makes the marker registry match the world's current
// vehicle set: markers are created on first sighting, updated every pass and
// removed in the same pass an identity disappears.
func (m *MiniMap) reconcileVehicles() {
	clear(m.seen)

	for _, v := range m.world.Vehicles() {
		if v == nil {
			continue
		}
		id := v.Identity()
		m.seen[id] = struct{}{}

		marker, ok := m.vehicleMarkers[id]
		if !ok {
			marker = m.newVehicleMarker(id)
			m.vehicleMarkers[id] = marker
			m.log.Debug().Str("vehicle", id).Int("tracked", len(m.vehicleMarkers)).Msg("vehicle marker added")
		}

		pos := v.WorldPosition()
		if geom.Finite(pos) {
			marker.Position = mgl64.Vec3{pos.X(), m.cfg.VehicleElevation, pos.Z()}
		}
		// markers lie flat; a vertical or broken orientation keeps the last heading
		if yaw, ok := geom.Yaw(v.WorldQuaternion()); ok {
			marker.Rotation = geom.YawQuat(yaw)
		}
	}

	for id, marker := range m.vehicleMarkers {
		if _, ok := m.seen[id]; ok {
			continue
		}
		m.markers.Remove(marker)
		delete(m.vehicleMarkers, id)
		m.log.Debug().Str("vehicle", id).Int("tracked", len(m.vehicleMarkers)).Msg("vehicle marker removed")
	}
}
