package main

import (
	"flag"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/bmp"

	"github.com/ScottBrooks/broadphase"
)

func main() {
	entities := flag.Int("entities", 200, "number of random circles")
	seed := flag.Int64("seed", 1, "random seed")
	width := flag.Int("width", 1024, "picture and world width")
	height := flag.Int("height", 768, "picture and world height")
	radius := flag.Float64("radius", 10, "max circle radius")
	out := flag.String("out", "bvh.bmp", "output file")
	query := flag.String("query", "", "debug query rectangle as lx,rx,ly,ry")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	ents := make([]broadphase.Entity, *entities)
	for i := range ents {
		r := 1 + rng.Float64()*(*radius-1)
		pos := mgl64.Vec2{rng.Float64() * (float64(*width) - 2*r), rng.Float64() * (float64(*height) - 2*r)}
		ents[i] = broadphase.Entity{
			Box:      broadphase.NewAABBForCircle(pos, r),
			Position: pos,
			ID:       uint32(i),
			Layers:   broadphase.NewLayerMask(i % 2),
		}
	}
	tree, err := broadphase.New(ents)
	if err != nil {
		log.WithError(err).Fatal("Unable to build tree")
	}
	s, err := broadphase.TreeStats(tree)
	if err != nil {
		log.WithError(err).Fatal("Unable to measure tree")
	}
	log.WithField("leaves", s.Leaves).WithField("maxDepth", s.MaxDepth).Info("Built tree")

	pic := drawTree(tree, *width, *height)
	if *query != "" {
		r, err := parseRect(*query)
		if err != nil {
			log.WithError(err).Fatal("Bad query")
		}
		ids, visits := tree.DebugQueryRect(r, nil)
		log.Printf("Query %v matched %d entities, visited %d nodes", r, len(ids), len(visits))
		drawVisits(pic, visits, r)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.WithError(err).Fatal("Unable to create output")
	}
	defer f.Close()
	if err := bmp.Encode(f, pic); err != nil {
		log.WithError(err).Fatal("Unable to write bmp")
	}
	log.Printf("Wrote %s", *out)
}

func parseRect(s string) (broadphase.AABB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return broadphase.AABB{}, errors.Errorf("want 4 comma separated numbers, got %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return broadphase.AABB{}, errors.Wrapf(err, "field %d", i)
		}
		v[i] = f
	}
	r := broadphase.AABB{Lx: v[0], Rx: v[1], Ly: v[2], Ry: v[3]}
	if !r.Valid() {
		return broadphase.AABB{}, errors.Errorf("empty rectangle %v", r)
	}
	return r, nil
}
