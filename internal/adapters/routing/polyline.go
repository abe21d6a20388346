package routing

import (
	"strings"

	"fuel-route-service/internal/domain"
)

// Google polyline codec (https://developers.google.com/maps/documentation/
// utilities/polylinealgorithm). Coordinates are delta-encoded at 1e-5
// precision.

// DecodePolyline decodes an encoded polyline into its coordinate sequence.
func DecodePolyline(encoded string) []domain.Coordinates {
	var points []domain.Coordinates
	index, lat, lon := 0, 0, 0

	for index < len(encoded) {
		d, next, ok := decodeValue(encoded, index)
		if !ok {
			return points
		}
		lat += d
		index = next

		d, next, ok = decodeValue(encoded, index)
		if !ok {
			return points
		}
		lon += d
		index = next

		points = append(points, domain.Coordinates{
			Lat: float64(lat) / 1e5,
			Lon: float64(lon) / 1e5,
		})
	}

	return points
}

func decodeValue(encoded string, index int) (delta, next int, ok bool) {
	shift, result := 0, 0
	for {
		if index >= len(encoded) {
			return 0, index, false
		}
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), index, true
	}
	return result >> 1, index, true
}

// EncodePolyline encodes a coordinate sequence as a polyline string.
func EncodePolyline(points []domain.Coordinates) string {
	var encoded strings.Builder
	prevLat, prevLon := 0, 0

	for _, p := range points {
		lat := int(p.Lat * 1e5)
		lon := int(p.Lon * 1e5)

		encodeValue(&encoded, lat-prevLat)
		encodeValue(&encoded, lon-prevLon)

		prevLat, prevLon = lat, lon
	}

	return encoded.String()
}

func encodeValue(b *strings.Builder, v int) {
	v <<= 1
	if v < 0 {
		v = ^v
	}
	for v >= 0x20 {
		b.WriteByte(byte((0x20 | (v & 0x1f)) + 63))
		v >>= 5
	}
	b.WriteByte(byte(v + 63))
}
