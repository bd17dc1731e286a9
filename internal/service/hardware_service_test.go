package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHardwareFixture() (*HardwareService, *fakeVehicleRepo) {
	vehicles := newFakeVehicleRepo()
	return NewHardwareService(nil, nil, &fakeDetectionRepo{}, vehicles), vehicles
}

func TestIngestDetectionFlagsRegisteredPlate(t *testing.T) {
	svc, vehicles := newHardwareFixture()
	vehicle := vehicles.add(7, "CAB-1234")

	detection, err := svc.IngestDetection("cam-01", "cab-1234", 0.97, nil, nil, nil)
	require.NoError(t, err)

	assert.True(t, detection.IsRegistered)
	require.NotNil(t, detection.VehicleID)
	assert.Equal(t, vehicle.ID, *detection.VehicleID)
	assert.Equal(t, "CAB-1234", detection.PlateNumber)
	assert.Equal(t, "logged", detection.ActionTaken)
}

func TestIngestDetectionUnknownPlateStillLogged(t *testing.T) {
	svc, _ := newHardwareFixture()

	detection, err := svc.IngestDetection("cam-01", "ZZZ-9999", 0.42, nil, nil, nil)
	require.NoError(t, err)
	assert.False(t, detection.IsRegistered)
	assert.Nil(t, detection.VehicleID)
}

func TestIngestDetectionRequiresCameraAndPlate(t *testing.T) {
	svc, _ := newHardwareFixture()

	_, err := svc.IngestDetection("", "CAB-1234", 0.9, nil, nil, nil)
	assert.Error(t, err)
	_, err = svc.IngestDetection("cam-01", "", 0.9, nil, nil, nil)
	assert.Error(t, err)
}
