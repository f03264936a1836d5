package session

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_VolumeNeverLeavesRange(t *testing.T) {
	s := New(10)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		delta := rng.Intn(61) - 30
		got := s.AdjustVolume(delta)
		if got < MinVolume || got > MaxVolume {
			t.Fatalf("volume %d out of range after step %d", got, i)
		}
	}
}

func TestState_VolumeSaturates(t *testing.T) {
	s := New(10)

	for i := 0; i < 50; i++ {
		s.AdjustVolume(10)
	}
	assert.Equal(t, MaxVolume, s.Volume())

	for i := 0; i < 50; i++ {
		s.AdjustVolume(-10)
	}
	assert.Equal(t, MinVolume, s.Volume())

	assert.Equal(t, MaxVolume, s.SetVolume(250))
	assert.Equal(t, MinVolume, s.SetVolume(-3))
	assert.Equal(t, 42, s.SetVolume(42))
}

func TestState_InitialVolumeClamped(t *testing.T) {
	assert.Equal(t, 10, New(10).Volume())
	assert.Equal(t, MaxVolume, New(140).Volume())
	assert.Equal(t, MinVolume, New(-1).Volume())
}

func TestState_SelectionAndCurrent(t *testing.T) {
	s := New(10)
	assert.Empty(t, s.Current())
	assert.Empty(t, s.Selected())

	s.Select("uri:album:1")
	assert.Equal(t, "uri:album:1", s.Selected())
	assert.Empty(t, s.Current())

	s.SetCurrent("uri:album:1")
	assert.Equal(t, "uri:album:1", s.Current())
	assert.Empty(t, s.Selected())
}

func TestState_BindDevice(t *testing.T) {
	s := New(10)
	s.BindDevice("d1", "Kitchen")
	assert.Equal(t, "d1", s.DeviceID())
	assert.Equal(t, "Kitchen", s.DeviceName())
}
