package main

import (
	"image"
	"image/color"
	"math"

	"github.com/ScottBrooks/broadphase"
)

var (
	background = color.RGBA{16, 16, 24, 255}
	fruitColor = color.RGBA{220, 220, 220, 255}
	queryColor = color.RGBA{255, 60, 60, 255}
	matchColor = color.RGBA{60, 255, 90, 255}
)

// depthColor fades from blue at the root to yellow at the deepest branches.
func depthColor(depth, maxDepth int) color.RGBA {
	t := 0.0
	if maxDepth > 0 {
		t = float64(depth) / float64(maxDepth)
	}
	return color.RGBA{uint8(40 + 200*t), uint8(80 + 150*t), uint8(220 - 180*t), 255}
}

func drawTree(tree *broadphase.Tree, w, h int) *image.RGBA {
	pic := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pic.SetRGBA(x, y, background)
		}
	}

	var everything broadphase.AABB
	if b, ok := tree.Bounds(); ok {
		everything = b
	}
	visits := broadphase.Walk(tree, everything, nil, broadphase.BoxOverlapsBox,
		func(v broadphase.Visit, acc []broadphase.Visit) []broadphase.Visit { return append(acc, v) }, []broadphase.Visit(nil))
	maxDepth := 0
	for _, v := range visits {
		maxDepth = max(maxDepth, v.Depth)
	}
	for _, v := range visits {
		c := depthColor(v.Depth, maxDepth)
		if v.Node.IsFruit() {
			c = fruitColor
		}
		strokeBox(pic, v.Node.Box(), c)
	}
	return pic
}

// drawVisits outlines the query in red and every fruit it matched in green.
func drawVisits(pic *image.RGBA, visits []broadphase.Visit, query broadphase.AABB) {
	for _, v := range visits {
		if v.Matched {
			strokeBox(pic, v.Node.Box(), matchColor)
		}
	}
	strokeBox(pic, query, queryColor)
}

func strokeBox(pic *image.RGBA, bb broadphase.AABB, c color.RGBA) {
	b := pic.Bounds()
	lx, rx := clamp(bb.Lx, b.Min.X, b.Max.X-1), clamp(bb.Rx, b.Min.X, b.Max.X-1)
	ly, ry := clamp(bb.Ly, b.Min.Y, b.Max.Y-1), clamp(bb.Ry, b.Min.Y, b.Max.Y-1)
	for x := lx; x <= rx; x++ {
		pic.SetRGBA(x, ly, c)
		pic.SetRGBA(x, ry, c)
	}
	for y := ly; y <= ry; y++ {
		pic.SetRGBA(lx, y, c)
		pic.SetRGBA(rx, y, c)
	}
}

func clamp(v float64, lo, hi int) int {
	return min(max(int(math.Round(v)), lo), hi)
}
