package types

// QueryParameter is the compiled form of a user query parameter.
type QueryParameter struct {
	Name           string              `json:"name"`
	ParameterType  QueryParameterType  `json:"parameterType"`
	ParameterValue QueryParameterValue `json:"parameterValue"`
}

type QueryParameterType struct {
	Type string `json:"type"`
}

type QueryParameterValue struct {
	Value any `json:"value"`
}

// UserQueryParameter is the short form written in pipeline documents.
type UserQueryParameter struct {
	Name  string `json:"name" mapstructure:"name"`
	Type  string `json:"type" mapstructure:"type"`
	Value any    `json:"value" mapstructure:"value"`
}

func (u UserQueryParameter) Compile() QueryParameter {
	return QueryParameter{
		Name:           u.Name,
		ParameterType:  QueryParameterType{Type: u.Type},
		ParameterValue: QueryParameterValue{Value: u.Value},
	}
}
