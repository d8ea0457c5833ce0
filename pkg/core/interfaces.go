package core

// RayMask is a bit field selecting which rays a piece of geometry takes part in
type RayMask uint8

const (
	MaskNone             RayMask = 0
	MaskVisible          RayMask = 1 << 0
	MaskCastShadows      RayMask = 1 << 1
	MaskLightSource      RayMask = 1 << 2
	MaskAmbientOcclusion RayMask = 1 << 3

	// MaskDefault is assigned to newly created geometry
	MaskDefault = MaskVisible | MaskCastShadows | MaskAmbientOcclusion
)

// Has reports whether m shares any bit with other
func (m RayMask) Has(other RayMask) bool {
	return m&other != 0
}

// Intersection is the surface sample produced when a ray hits geometry
type Intersection struct {
	Position Vec3 // World-space hit position
	Normal   Vec3 // World-space geometric normal (outward facing)
	Tangent  Vec3 // World-space tangent
	UV       Vec2
	T        float64 // Parameter along Ray

	Ray      Ray
	Geometry Geometry
	Material Material
}

// Bitangent returns Tangent × Normal
func (i *Intersection) Bitangent() Vec3 {
	return i.Tangent.Cross(i.Normal)
}

// Distance returns the distance from the ray origin to the hit position
func (i *Intersection) Distance() float64 {
	return i.Position.Subtract(i.Ray.Origin).Length()
}

// FrontFace reports whether the ray arrived from outside the surface
func (i *Intersection) FrontFace() bool {
	return i.Ray.Direction.Dot(i.Normal) < 0
}

// Geometry is anything the BVH can hold
type Geometry interface {
	// Intersect returns the nearest hit with t in [tMin, tMax]
	Intersect(ray Ray, tMin, tMax float64) (Intersection, bool)
	BoundingBox() AABB
	SurfaceArea() float64
	RayMask() RayMask
}

// Tracer is handed to materials so they can spawn secondary rays through the
// same integrator that invoked them.
type Tracer interface {
	// CastRay evaluates the radiance arriving along ray. depth is the bounce
	// count of the new ray and throughput its accumulated path weight.
	CastRay(ray Ray, sampler Sampler, depth int, throughput Vec3) (Vec3, error)

	// Intersect queries the scene for the nearest hit under mask
	Intersect(ray Ray, mask RayMask, tMin, tMax float64) (Intersection, bool)

	// Settings returns the sampling parameters materials should honor
	Settings() TraceSettings
}

// TraceSettings are the integrator parameters visible to materials
type TraceSettings struct {
	GISamples  int     // Secondary rays per diffuse global illumination estimate
	AOSamples  int     // Occlusion rays per ambient occlusion estimate (0 disables)
	AODistance float64 // Maximum distance an occluder may be from the shaded point
	AOStrength float64 // Fraction of light removed when fully occluded
}

// Material produces radiance samples at intersections
type Material interface {
	// Sample returns the radiance leaving hit towards the ray origin
	Sample(tracer Tracer, hit *Intersection, sampler Sampler, depth int, throughput Vec3) (Vec3, error)

	// WorldNormal returns the shading normal at hit
	WorldNormal(hit *Intersection) Vec3

	// AmbientOcclusion returns the attenuation applied to samples at position
	AmbientOcclusion(tracer Tracer, sampler Sampler, position, normal Vec3) Vec3
}
