package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionLevel_NextAndLeaf(t *testing.T) {
	assert.Equal(t, LevelCity, LevelProvince.Next())
	assert.Equal(t, LevelSubdistrict, LevelDistrict.Next())
	assert.Equal(t, LevelSubdistrict, LevelSubdistrict.Next())
	assert.True(t, LevelSubdistrict.IsLeaf())
	assert.False(t, LevelDistrict.IsLeaf())
	assert.False(t, RegionLevel(7).Valid())
}

func TestParseRegionLevel(t *testing.T) {
	level, err := ParseRegionLevel(" District ")
	require.NoError(t, err)
	assert.Equal(t, LevelDistrict, level)

	_, err = ParseRegionLevel("village")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestRegion_JSONUsesLevelNames(t *testing.T) {
	raw, err := json.Marshal(Region{ID: "32", Name: "JAWA BARAT", Level: LevelProvince})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"32","name":"JAWA BARAT","level":"province"}`, string(raw))

	var back Region
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, LevelProvince, back.Level)

	_, err = json.Marshal(Region{Level: RegionLevel(9)})
	assert.Error(t, err)
}

func TestRegion_IsAncestorOf(t *testing.T) {
	province := Region{ID: "32"}
	city := Region{ID: "3273"}
	assert.True(t, province.IsAncestorOf(city))
	assert.False(t, city.IsAncestorOf(province))
	assert.False(t, province.IsAncestorOf(province))
}

func TestPropertyPricing_EffectivePrice(t *testing.T) {
	promo := 90.0
	zero := 0.0
	assert.Equal(t, 90.0, PropertyPricing{Price: 100, PromoPrice: &promo}.EffectivePrice())
	assert.Equal(t, 100.0, PropertyPricing{Price: 100, PromoPrice: &zero}.EffectivePrice())
	assert.Equal(t, 100.0, PropertyPricing{Price: 100}.EffectivePrice())
}

func TestFetchError_Unwrap(t *testing.T) {
	err := &FetchError{Level: LevelCity, ParentID: "32", Err: ErrParentRequired}
	assert.ErrorIs(t, err, ErrParentRequired)
	assert.Contains(t, err.Error(), "city")
}
