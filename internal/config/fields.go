package config

import (
	"os"
	"strconv"
)

// Section configs share these rules: zero overlay values leave the base
// untouched, defaults fill zero values, and set env vars win over both.

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func defaultInt(dst *int, v int) {
	if *dst <= 0 {
		*dst = v
	}
}

func defaultString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func envInt(name string, dst *int) {
	if n, err := strconv.Atoi(os.Getenv(name)); err == nil {
		*dst = n
	}
}

func envString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
