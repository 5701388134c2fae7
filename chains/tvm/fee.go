package tvm

// SunPerBandwidthByte is Tron's bandwidth price (spec.md §4.6).
const SunPerBandwidthByte = 1000

// TypicalTRC20EnergyFeeSun is a flat estimate of the energy cost a typical
// TRC-20 call burns, added only to the "fast" band (spec.md §4.6: "fast
// adds energy_fee for a typical TRC-20 call").
const TypicalTRC20EnergyFeeSun = 14_000_000 // 14 TRX, Tron's per-unit energy price times a ~100k-energy call

// FeeBands is the SUN estimate at each speed for a transaction of the
// given serialised byte size.
type FeeBands struct {
	SlowSun     int64
	StandardSun int64
	FastSun     int64
}

// EstimateFee computes bandwidth-only fees for slow/standard and adds the
// typical energy fee for fast (spec.md §4.6).
func EstimateFee(serializedSizeBytes int) FeeBands {
	bandwidth := int64(serializedSizeBytes) * SunPerBandwidthByte
	return FeeBands{
		SlowSun:     bandwidth,
		StandardSun: bandwidth,
		FastSun:     bandwidth + TypicalTRC20EnergyFeeSun,
	}
}
