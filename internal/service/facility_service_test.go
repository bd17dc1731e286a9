package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSpotsDefaultTypeIsReservable(t *testing.T) {
	spots := newFakeSpotRepo(1, 0)
	svc := NewFacilityService(&fakeFacilityRepo{rate: 150}, spots)

	err := svc.InitSpots(1, 5, "", nil, "")
	require.NoError(t, err)

	spot, err := spots.ReserveFirstAvailable(1, "regular")
	require.NoError(t, err)
	assert.Equal(t, "regular", spot.SpotType)
	assert.Equal(t, "A-01", spot.SpotName)
}

func TestInitSpotsRejectsBadCount(t *testing.T) {
	svc := NewFacilityService(&fakeFacilityRepo{rate: 150}, newFakeSpotRepo(1, 0))

	assert.Error(t, svc.InitSpots(1, 0, "A", nil, "regular"))
	assert.Error(t, svc.InitSpots(1, 10001, "A", nil, "regular"))
}
