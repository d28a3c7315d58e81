package main

import (
	"fmt"
	"io"
)

func printExamples(w io.Writer) {
	fmt.Fprint(w, `
City Map Poster Generator
============================================================

Usage examples:

  Generate with default theme (feature_based):
    mapposter -c "Paris" -C "France"

  Generate with a specific theme:
    mapposter -c "Tokyo" -C "Japan" -t noir

  Generate posters for every theme:
    mapposter -c "Barcelona" -C "Spain" --all-themes

  Control the map radius (meters):
    mapposter -c "Manhattan" -C "USA" -d 6000
    mapposter -c "London" -C "UK" -d 18000

  Vector output for print shops:
    mapposter -c "Amsterdam" -C "Netherlands" -f svg
    mapposter -c "Berlin" -C "Germany" -f pdf

  Override the country label on the poster:
    mapposter -c "Edinburgh" -C "United Kingdom" --country-label "Scotland"

  List all available themes:
    mapposter --list-themes

Distance guide:
   4000-6000   dense urban core, individual blocks visible
   8000-12000  whole city, the default scale (12000)
  15000-29000  metro area with surrounding towns

============================================================
`)
}
