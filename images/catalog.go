package images

import (
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/cameroncuttingedge/fruit_bingo/game"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// CatalogPrefix matches the path the image service has always been reached under.
const CatalogPrefix = "/fruitbingoapp"

//go:embed catalog
var catalogFS embed.FS

// Catalog returns the built-in descriptor list.
func Catalog() ([]game.ImageDescriptor, error) {
	data, err := catalogFS.ReadFile("catalog/catalog.json")
	if err != nil {
		return nil, err
	}
	var descriptors []game.ImageDescriptor
	if err := json.Unmarshal(data, &descriptors); err != nil {
		return nil, err
	}
	return descriptors, nil
}

// MountCatalog serves the built-in image service so the game can run without an
// external one: GET /fruitbingoapp/GetImages plus the images it references.
func MountCatalog(r *mux.Router) {
	sub := r.PathPrefix(CatalogPrefix).Subrouter()
	sub.HandleFunc("/GetImages", getImagesHandler).Methods("GET")

	imagesDir, _ := fs.Sub(catalogFS, "catalog")
	fileServer := http.StripPrefix(CatalogPrefix+"/images/", http.FileServer(http.FS(imagesDir)))
	sub.PathPrefix("/images/").Handler(fileServer).Methods("GET")

	log.Info().Str("prefix", CatalogPrefix).Msg("Serving built-in image catalog")
}

func getImagesHandler(w http.ResponseWriter, r *http.Request) {
	descriptors, err := Catalog()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load built-in image catalog")
		http.Error(w, "Failed to load image catalog", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(descriptors)
}
