package environment_variables

import (
	"os"
	"reflect"
	"strings"
)

type EnvironmentVariable struct {
	PLANTUML_BIN       string
	ALLOWED_CORS_HOSTS []string
}

func (ev *EnvironmentVariable) LoadFromEnv() {
	v := reflect.ValueOf(ev).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		envValue := os.Getenv(field.Name)
		if envValue == "" {
			continue
		}
		switch v.Field(i).Kind() {
		case reflect.String:
			v.Field(i).SetString(envValue)
		case reflect.Slice:
			// comma separated list
			parts := strings.Split(envValue, ",")
			for j := range parts {
				parts[j] = strings.TrimSpace(parts[j])
			}
			v.Field(i).Set(reflect.ValueOf(parts))
		}
	}
}

// Singleton
var EnvironmentVariables = EnvironmentVariable{}
