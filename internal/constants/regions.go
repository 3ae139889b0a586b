package constants

// Пути справочника регионов относительно базового URL.
// Для всех уровней, кроме провинций, %s - id непосредственного родителя.
const (
	ProvincesPath    = "provinsi.json"
	CitiesPath       = "kabupaten/%s.json"
	DistrictsPath    = "kecamatan/%s.json"
	SubdistrictsPath = "kelurahan/%s.json"

	RegionCacheKeyPrefix = "regions"
)
