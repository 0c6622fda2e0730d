package apidocs

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

const bearerAuth = "bearerAuth"

// Spec describes the HTTP surface registered by handlers.RegisterHandlers.
func Spec() *openapi3.T {
	userRef := componentRef("User", userSchema())
	userList := openapi3.NewArraySchema()
	userList.Items = userRef
	userListRef := openapi3.NewSchemaRef("", userList)
	messageRef := componentRef("Message", messageSchema())

	secured := openapi3.NewSecurityRequirements().With(openapi3.NewSecurityRequirement().Authenticate(bearerAuth))

	idParam := &openapi3.ParameterRef{Value: openapi3.NewPathParameter("id").WithSchema(openapi3.NewIntegerSchema())}
	pageParams := openapi3.Parameters{
		{Value: openapi3.NewQueryParameter("page").WithSchema(openapi3.NewIntegerSchema().WithMin(1))},
		{Value: openapi3.NewQueryParameter("limit").WithSchema(openapi3.NewIntegerSchema().WithMin(1))},
	}

	listOp := func(id, summary string, params openapi3.Parameters) *openapi3.Operation {
		return &openapi3.Operation{
			Tags:        []string{"usuarios"},
			OperationID: id,
			Summary:     summary,
			Parameters:  params,
			Security:    secured,
			Responses: openapi3.NewResponses(
				withJSON(http.StatusOK, "Usuarios", userListRef),
				withJSON(http.StatusBadRequest, "Parámetros inválidos", messageRef),
				withJSON(http.StatusUnauthorized, "No autenticado", messageRef),
				withJSON(http.StatusForbidden, "Solo administradores", messageRef),
			),
		}
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "Usuarios API",
			Version: "1.0.0",
		},
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"User":       openapi3.NewSchemaRef("", userSchema()),
				"UserCreate": openapi3.NewSchemaRef("", userCreateSchema()),
				"UserUpdate": openapi3.NewSchemaRef("", userUpdateSchema()),
				"Token":      openapi3.NewSchemaRef("", tokenSchema()),
				"Message":    openapi3.NewSchemaRef("", messageSchema()),
			},
			SecuritySchemes: openapi3.SecuritySchemes{
				bearerAuth: &openapi3.SecuritySchemeRef{Value: openapi3.NewJWTSecurityScheme()},
			},
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/healthcheck", &openapi3.PathItem{
				Get: &openapi3.Operation{
					OperationID: "HealthCheck",
					Responses:   openapi3.NewResponses(withDescription(http.StatusOK, "OK")),
				},
			}),
			openapi3.WithPath("/login", &openapi3.PathItem{
				Post: &openapi3.Operation{
					Tags:        []string{"auth"},
					OperationID: "AuthLogin",
					RequestBody: &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithRequired(true).WithFormDataSchema(
						openapi3.NewObjectSchema().
							WithProperty("username", openapi3.NewStringSchema()).
							WithProperty("password", openapi3.NewStringSchema()).
							WithRequired([]string{"username", "password"}),
					)},
					Responses: openapi3.NewResponses(
						withJSON(http.StatusOK, "Token de acceso", componentRef("Token", tokenSchema())),
						withJSON(http.StatusBadRequest, "Faltan credenciales", messageRef),
						withJSON(http.StatusUnauthorized, "Usuario o contraseña incorrectos", messageRef),
					),
				},
			}),
			openapi3.WithPath("/usuarios", &openapi3.PathItem{
				Get: listOp("UserList", "Lista de usuarios", pageParams),
				Post: &openapi3.Operation{
					Tags:        []string{"usuarios"},
					OperationID: "UserCreate",
					RequestBody: &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithRequired(true).
						WithJSONSchemaRef(componentRef("UserCreate", userCreateSchema()))},
					Responses: openapi3.NewResponses(
						withJSON(http.StatusOK, "Usuario creado", userRef),
						withJSON(http.StatusBadRequest, "Datos inválidos", messageRef),
						withJSON(http.StatusConflict, "El usuario ya existe", messageRef),
					),
				},
			}),
			openapi3.WithPath("/usuarios/mayores/{edad}", &openapi3.PathItem{
				Get: listOp("UserListOlderThan", "Usuarios con edad mayor o igual", append(openapi3.Parameters{
					{Value: openapi3.NewPathParameter("edad").WithSchema(openapi3.NewIntegerSchema().WithMin(0))},
				}, pageParams...)),
			}),
			openapi3.WithPath("/usuarios/me", &openapi3.PathItem{
				Get: &openapi3.Operation{
					Tags:        []string{"usuarios"},
					OperationID: "UserInfoGetSelf",
					Security:    secured,
					Responses: openapi3.NewResponses(
						withJSON(http.StatusOK, "Usuario actual", userRef),
						withJSON(http.StatusUnauthorized, "No autenticado", messageRef),
					),
				},
				Delete: &openapi3.Operation{
					Tags:        []string{"usuarios"},
					OperationID: "UserDeleteSelf",
					Security:    secured,
					Responses: openapi3.NewResponses(
						withJSON(http.StatusOK, "Usuario eliminado", messageRef),
						withJSON(http.StatusUnauthorized, "No autenticado", messageRef),
					),
				},
			}),
			openapi3.WithPath("/usuarios/{id}", &openapi3.PathItem{
				Parameters: openapi3.Parameters{idParam},
				Get: &openapi3.Operation{
					Tags:        []string{"usuarios"},
					OperationID: "UserInfoGet",
					Security:    secured,
					Responses: openapi3.NewResponses(
						withJSON(http.StatusOK, "Usuario", userRef),
						withJSON(http.StatusUnauthorized, "No autenticado", messageRef),
						withJSON(http.StatusNotFound, "Usuario no encontrado", messageRef),
					),
				},
				Put: &openapi3.Operation{
					Tags:        []string{"usuarios"},
					OperationID: "UserInfoUpdate",
					Security:    secured,
					RequestBody: &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithRequired(true).
						WithJSONSchemaRef(componentRef("UserUpdate", userUpdateSchema()))},
					Responses: openapi3.NewResponses(
						withJSON(http.StatusOK, "Usuario actualizado", userRef),
						withJSON(http.StatusBadRequest, "Datos inválidos", messageRef),
						withJSON(http.StatusUnauthorized, "No autenticado", messageRef),
						withJSON(http.StatusForbidden, "Sin permiso", messageRef),
						withJSON(http.StatusNotFound, "Usuario no encontrado", messageRef),
					),
				},
				Delete: &openapi3.Operation{
					Tags:        []string{"usuarios"},
					OperationID: "UserDelete",
					Security:    secured,
					Responses: openapi3.NewResponses(
						withJSON(http.StatusOK, "Usuario eliminado", messageRef),
						withJSON(http.StatusUnauthorized, "No autenticado", messageRef),
						withJSON(http.StatusForbidden, "Sin permiso", messageRef),
						withJSON(http.StatusNotFound, "Usuario no encontrado", messageRef),
					),
				},
			}),
		),
	}
}

// componentRef points at a schema under components while keeping its value
// resolved, so Validate works without a loader.
func componentRef(name string, schema *openapi3.Schema) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, schema)
}

func withDescription(status int, description string) openapi3.NewResponsesOption {
	return openapi3.WithStatus(status, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(description)})
}

func withJSON(status int, description string, schema *openapi3.SchemaRef) openapi3.NewResponsesOption {
	return openapi3.WithStatus(status, &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription(description).
		WithContent(openapi3.NewContentWithJSONSchemaRef(schema)),
	})
}

func userSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewIntegerSchema()).
		WithProperty("nombre", openapi3.NewStringSchema()).
		WithProperty("username", openapi3.NewStringSchema()).
		WithProperty("mail", openapi3.NewStringSchema()).
		WithProperty("edad", openapi3.NewIntegerSchema().WithMin(0)).
		WithProperty("es_admin", openapi3.NewBoolSchema())
}

func userCreateSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("nombre", openapi3.NewStringSchema()).
		WithProperty("username", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(64)).
		WithProperty("mail", openapi3.NewStringSchema().WithFormat("email")).
		WithProperty("edad", openapi3.NewIntegerSchema().WithMin(0)).
		WithProperty("password", openapi3.NewStringSchema().WithMinLength(6).WithMaxLength(72)).
		WithProperty("es_admin", openapi3.NewBoolSchema()).
		WithRequired([]string{"username", "edad", "password"})
}

func userUpdateSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("nombre", openapi3.NewStringSchema()).
		WithProperty("edad", openapi3.NewIntegerSchema().WithMin(0)).
		WithProperty("es_admin", openapi3.NewBoolSchema())
}

func tokenSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("access_token", openapi3.NewStringSchema()).
		WithProperty("token_type", openapi3.NewStringSchema()).
		WithProperty("expires_in", openapi3.NewIntegerSchema())
}

func messageSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().WithProperty("message", openapi3.NewStringSchema())
}
