package v1alpha1

import (
	"encoding/json"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"autosecret/pkg/core"
)

// CustomResourceDefinition builds the AutoSecret CRD. The values of spec.secrets are restricted
// to the given generation kinds so unknown kinds are rejected by the API server.
func CustomResourceDefinition(kinds []core.SecretKind) *apiextensionsv1.CustomResourceDefinition {
	kindEnum := make([]apiextensionsv1.JSON, 0, len(kinds))
	for _, kind := range kinds {
		raw, _ := json.Marshal(string(kind))
		kindEnum = append(kindEnum, apiextensionsv1.JSON{Raw: raw})
	}

	specSchema := apiextensionsv1.JSONSchemaProps{
		Type:     "object",
		Required: []string{"secrets"},
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"secrets": {
				Type:        "object",
				Description: "Secret entries keyed by name, valued by generation kind.",
				AdditionalProperties: &apiextensionsv1.JSONSchemaPropsOrBool{
					Allows: true,
					Schema: &apiextensionsv1.JSONSchemaProps{Type: "string", Enum: kindEnum},
				},
			},
		},
	}

	return &apiextensionsv1.CustomResourceDefinition{
		TypeMeta: metav1.TypeMeta{
			APIVersion: apiextensionsv1.SchemeGroupVersion.String(),
			Kind:       "CustomResourceDefinition",
		},
		ObjectMeta: metav1.ObjectMeta{Name: Plural + "." + GroupVersion.Group},
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group: GroupVersion.Group,
			Names: apiextensionsv1.CustomResourceDefinitionNames{
				Plural:     Plural,
				Singular:   Singular,
				Kind:       Kind,
				ListKind:   ListKind,
				ShortNames: []string{ShortName},
			},
			Scope: apiextensionsv1.NamespaceScoped,
			Versions: []apiextensionsv1.CustomResourceDefinitionVersion{{
				Name:    GroupVersion.Version,
				Served:  true,
				Storage: true,
				Schema: &apiextensionsv1.CustomResourceValidation{
					OpenAPIV3Schema: &apiextensionsv1.JSONSchemaProps{
						Type:        "object",
						Description: "Auto-generated secrets via CRD spec",
						Required:    []string{"spec"},
						Properties: map[string]apiextensionsv1.JSONSchemaProps{
							"spec": specSchema,
						},
					},
				},
			}},
		},
	}
}

// CRDYAML renders the CRD manifest as YAML.
func CRDYAML(kinds []core.SecretKind) ([]byte, error) {
	return yaml.Marshal(CustomResourceDefinition(kinds))
}
