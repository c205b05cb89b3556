package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/minimap/ecs"
	"github.com/milk9111/minimap/ecs/component"
)

const stickDeadzone = 0.2

type InputSystem struct {
	// Poll reads the device state once per tick.
	Poll func() component.Input
}

func NewInputSystem() *InputSystem {
	return &InputSystem{Poll: pollDevices}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil || i.Poll == nil {
		return
	}

	state := i.Poll()
	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		*input = state
	})
}

func pollDevices() component.Input {
	var in component.Input

	if ebiten.IsKeyPressed(ebiten.KeyW) {
		in.Move += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		in.Move -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		in.Turn += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		in.Turn -= 1
	}

	in.FreeLook = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) || ebiten.IsKeyPressed(ebiten.KeyShift)
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.LookX += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.LookX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.LookY += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.LookY -= 1
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Abs(lx) > stickDeadzone {
			in.Turn = -lx
		}
		if math.Abs(ly) > stickDeadzone {
			in.Move = -ly
		}

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			in.FreeLook = true
			in.LookX = -rx
			in.LookY = -ry
		}
	}

	return in
}
