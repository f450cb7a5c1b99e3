package engine

import (
	"time"

	"github.com/lintang-b-s/roadsearch/pkg"
	"github.com/spf13/viper"
)

const (
	SOURCE_OSM  = "osm"
	SOURCE_FILE = "file"

	HEURISTIC_LANDMARK     = "landmark"
	HEURISTIC_GREAT_CIRCLE = "great_circle"
	HEURISTIC_ZERO         = "zero"
)

// Config is built once at startup and handed to constructors.
type Config struct {
	GraphSource  string
	MapFile      string
	GraphFile    string
	LargestSCC   bool
	DBPath       string
	InMemoryDB   bool
	DefaultMode  pkg.SearchMode
	Heuristic    string
	NumLandmarks int
	LandmarkFile string
	CostPerMeter float64
	CacheSize    int
	Workers      int
	SnapRadiusKm float64

	APIPort      int
	APITimeout   time.Duration
	UseRateLimit bool
	RateLimit    float64
	RateBurst    int
}

// DefaultConfig registers the viper defaults for every key LoadConfig reads.
func DefaultConfig() {
	viper.SetDefault("GRAPH_SOURCE", SOURCE_OSM)
	viper.SetDefault("MAP_FILE", "./data/map.osm.pbf")
	viper.SetDefault("GRAPH_FILE", "./data/road.graph")
	viper.SetDefault("LARGEST_SCC", true)
	viper.SetDefault("DB_PATH", "./data/roadsearch_db")
	viper.SetDefault("IN_MEMORY_DB", false)
	viper.SetDefault("SEARCH_MODE", "astar")
	viper.SetDefault("HEURISTIC", HEURISTIC_LANDMARK)
	viper.SetDefault("NUM_LANDMARKS", pkg.DEFAULT_NUM_LANDMARKS)
	viper.SetDefault("LANDMARK_FILE", "./data/landmark.bz2")
	viper.SetDefault("COST_PER_METER", 1.0)
	viper.SetDefault("HEURISTIC_CACHE_SIZE", 1<<16)
	viper.SetDefault("WORKERS", 4)
	viper.SetDefault("SNAP_RADIUS_KM", pkg.DEFAULT_SNAP_RADIUS_KM)

	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "30s")
	viper.SetDefault("USE_RATE_LIMIT", true)
	viper.SetDefault("RATE_LIMIT", 100.0)
	viper.SetDefault("RATE_BURST", 200)
}

func LoadConfig() (Config, error) {
	DefaultConfig()
	mode, err := pkg.ParseSearchMode(viper.GetString("SEARCH_MODE"))
	if err != nil {
		return Config{}, err
	}
	return Config{
		GraphSource:  viper.GetString("GRAPH_SOURCE"),
		MapFile:      viper.GetString("MAP_FILE"),
		GraphFile:    viper.GetString("GRAPH_FILE"),
		LargestSCC:   viper.GetBool("LARGEST_SCC"),
		DBPath:       viper.GetString("DB_PATH"),
		InMemoryDB:   viper.GetBool("IN_MEMORY_DB"),
		DefaultMode:  mode,
		Heuristic:    viper.GetString("HEURISTIC"),
		NumLandmarks: viper.GetInt("NUM_LANDMARKS"),
		LandmarkFile: viper.GetString("LANDMARK_FILE"),
		CostPerMeter: viper.GetFloat64("COST_PER_METER"),
		CacheSize:    viper.GetInt("HEURISTIC_CACHE_SIZE"),
		Workers:      viper.GetInt("WORKERS"),
		SnapRadiusKm: viper.GetFloat64("SNAP_RADIUS_KM"),
		APIPort:      viper.GetInt("API_PORT"),
		APITimeout:   viper.GetDuration("API_TIMEOUT"),
		UseRateLimit: viper.GetBool("USE_RATE_LIMIT"),
		RateLimit:    viper.GetFloat64("RATE_LIMIT"),
		RateBurst:    viper.GetInt("RATE_BURST"),
	}, nil
}
