package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Meloken/mas2/internal/material"
)

// Fixed lighting for the preview: one directional light plus ambient.
var (
	lightDir     = [3]float32{0.5, 1, 0.5}
	ambientColor = [4]float32{0.22, 0.23, 0.26, 1.0}
	lightColor   = [3]float32{1.0, 0.98, 0.95}
)

const lightIntensity = float32(0.8)

// shaderSet holds the two lit shaders (flat color and albedo-textured),
// created lazily once a GL context exists.
type shaderSet struct {
	lit         rl.Shader
	litTextured rl.Shader
	loaded      bool
}

func (s *shaderSet) ensure() {
	if s.loaded {
		return
	}
	s.lit = rl.LoadShaderFromMemory(litVS, litFS)
	s.litTextured = rl.LoadShaderFromMemory(litVS, litTexturedFS)
	s.loaded = true
}

// setFrameUniforms sets per-frame uniforms (view position, light) on both
// shaders. Call once per frame before drawing.
func (s *shaderSet) setFrameUniforms(camPos rl.Vector3) {
	view := []float32{camPos.X, camPos.Y, camPos.Z}
	for _, sh := range []rl.Shader{s.lit, s.litTextured} {
		if !rl.IsShaderValid(sh) {
			continue
		}
		if loc := rl.GetShaderLocation(sh, "viewPos"); loc >= 0 {
			rl.SetShaderValueV(sh, loc, view, rl.ShaderUniformVec3, 1)
		}
		if loc := rl.GetShaderLocation(sh, "lightDir"); loc >= 0 {
			rl.SetShaderValueV(sh, loc, lightDir[:], rl.ShaderUniformVec3, 1)
		}
		if loc := rl.GetShaderLocation(sh, "ambient"); loc >= 0 {
			rl.SetShaderValueV(sh, loc, ambientColor[:], rl.ShaderUniformVec4, 1)
		}
		if loc := rl.GetShaderLocation(sh, "lightColor"); loc >= 0 {
			rl.SetShaderValueV(sh, loc, lightColor[:], rl.ShaderUniformVec3, 1)
		}
		if loc := rl.GetShaderLocation(sh, "lightIntensity"); loc >= 0 {
			rl.SetShaderValue(sh, loc, []float32{lightIntensity}, rl.ShaderUniformFloat)
		}
	}
}

// materialFor builds the raylib material for a surface handle: base color
// tint plus specular terms derived from the handle's finish. The texture, if
// any, is applied later when it arrives (see Backend.applyTexture).
func (s *shaderSet) materialFor(h *material.SurfaceHandle) rl.Material {
	mtl := rl.LoadMaterialDefault()
	if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rl.NewColor(h.BaseColor[0], h.BaseColor[1], h.BaseColor[2], 255)
	}
	if rl.IsShaderValid(s.lit) {
		mtl.Shader = s.lit
	}
	return mtl
}

// setSpecular sets the finish-derived specular terms on a shader. The
// shaders are shared across parts, so this runs once per draw call (the
// uniforms are cheap scalars). Rougher surfaces get a broader, weaker
// highlight; clearcoat and metalness fold into the strength.
func setSpecular(sh rl.Shader, f material.Finish) {
	if !rl.IsShaderValid(sh) {
		return
	}
	power := (1-f.Roughness)*88 + 8
	strength := f.Reflectivity + 0.5*f.Clearcoat + 0.4*f.Metalness
	if loc := rl.GetShaderLocation(sh, "specularPower"); loc >= 0 {
		rl.SetShaderValue(sh, loc, []float32{power}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(sh, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(sh, loc, []float32{strength}, rl.ShaderUniformFloat)
	}
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragTexCoord = vertexTexCoord;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float NdotH = max(dot(N, H), 0.0);
  float spec = pow(NdotH, specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
	litTexturedFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
uniform sampler2D albedoMap;
out vec4 finalColor;
void main() {
  vec4 texColor = texture(albedoMap, fragTexCoord);
  vec4 tint = texColor * colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float NdotH = max(dot(N, H), 0.0);
  float spec = pow(NdotH, specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
)
