package renderer

import (
	"image"
	"testing"
)

func TestNewTileGrid_CoversImage(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		tileSize       int
		expectedTiles  int
		lastTileBounds image.Rectangle
	}{
		{"Exact", 64, 32, 16, 8, image.Rect(48, 16, 64, 32)},
		{"Ragged", 50, 20, 16, 8, image.Rect(48, 16, 50, 20)},
		{"Single", 10, 10, 64, 1, image.Rect(0, 0, 10, 10)},
		{"Unset size", 10, 7, 0, 1, image.Rect(0, 0, 10, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
			if len(tiles) != tt.expectedTiles {
				t.Fatalf("Expected %d tiles, got %d", tt.expectedTiles, len(tiles))
			}
			if last := tiles[len(tiles)-1].Bounds; last != tt.lastTileBounds {
				t.Errorf("Expected last tile %v, got %v", tt.lastTileBounds, last)
			}

			covered := make([]int, tt.width*tt.height)
			for i, tile := range tiles {
				if tile.ID != i {
					t.Errorf("Expected tile ID %d, got %d", i, tile.ID)
				}
				for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
					for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
						covered[y*tt.width+x]++
					}
				}
			}
			for idx, n := range covered {
				if n != 1 {
					t.Fatalf("Pixel %d covered %d times", idx, n)
				}
			}
		})
	}
}
