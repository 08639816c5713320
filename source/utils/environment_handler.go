package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const (
	ENV                      = "ENV"
	PORT                     = "PORT"
	ACCESS_PIN               = "ACCESS_PIN"
	GATEWAY_DRIVER           = "GATEWAY_DRIVER"
	MONGODB_URI              = "MONGODB_URI"
	MYSQL_URI                = "MYSQL_URI"
	SQLITE_PATH              = "SQLITE_PATH"
	REDIS_URI                = "REDIS_URI"
	LOG_LEVEL                = "LOG_LEVEL"
	DRAG_ACTIVATION_DISTANCE = "DRAG_ACTIVATION_DISTANCE"

	ENV_DEVELOPMENT = "development"
	ENV_HOMOLOG     = "homolog"
	ENV_RELEASE     = "production"

	GATEWAY_MONGO  = "mongo"
	GATEWAY_MYSQL  = "mysql"
	GATEWAY_SQLITE = "sqlite"

	DEFAULT_DRAG_ACTIVATION_DISTANCE = 8.0
)

var requiredKeys = []string{ENV, PORT, ACCESS_PIN}

var optionalKeys = []string{
	GATEWAY_DRIVER,
	MONGODB_URI,
	MYSQL_URI,
	SQLITE_PATH,
	REDIS_URI,
	LOG_LEVEL,
	DRAG_ACTIVATION_DISTANCE,
}

var allowedEnvValues = []string{ENV_DEVELOPMENT, ENV_HOMOLOG, ENV_RELEASE}

var allowedGatewayDrivers = []string{GATEWAY_MONGO, GATEWAY_MYSQL, GATEWAY_SQLITE}

func allowedKeys() []string {
	return slices.Concat(requiredKeys, optionalKeys)
}

// LoadEnvVariables reads .env from the working directory and panics on any
// configuration problem.
func LoadEnvVariables() {
	workDir, err := os.Getwd()
	if err != nil {
		panic("[ENV] Could not resolve the working directory: " + err.Error())
	}

	if err := LoadEnvFile(filepath.Join(workDir, ".env")); err != nil {
		panic("[ENV] " + err.Error())
	}
}

// LoadEnvFile exports every key of the file into the process environment. A
// missing file is not an error as long as the required keys are already set.
func LoadEnvFile(filePath string) error {
	file, err := os.Open(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return validateEnvironment()
	}
	if err != nil {
		return fmt.Errorf("could not open %s: %w", filePath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format on line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := unquote(strings.TrimSpace(parts[1]))

		if !slices.Contains(allowedKeys(), key) {
			return fmt.Errorf("key '%s' is not allowed. Allowed keys: %s",
				key, strings.Join(allowedKeys(), ", "))
		}

		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("could not set %s: %w", key, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("could not read %s: %w", filePath, err)
	}

	return validateEnvironment()
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	if (strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"")) ||
		(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) {
		return value[1 : len(value)-1]
	}
	return value
}

func validateEnvironment() error {
	var missingKeys []string
	for _, key := range requiredKeys {
		if os.Getenv(key) == "" {
			missingKeys = append(missingKeys, key)
		}
	}
	if len(missingKeys) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missingKeys, ", "))
	}

	if env := os.Getenv(ENV); !slices.Contains(allowedEnvValues, env) {
		return fmt.Errorf("invalid value for ENV: %s. Allowed values: %s",
			env, strings.Join(allowedEnvValues, ", "))
	}

	if driver := GatewayDriver(); !slices.Contains(allowedGatewayDrivers, driver) {
		return fmt.Errorf("invalid value for GATEWAY_DRIVER: %s. Allowed values: %s",
			driver, strings.Join(allowedGatewayDrivers, ", "))
	}

	if raw := os.Getenv(DRAG_ACTIVATION_DISTANCE); raw != "" {
		if d, err := strconv.ParseFloat(raw, 64); err != nil || d < 0 {
			return fmt.Errorf("invalid value for DRAG_ACTIVATION_DISTANCE: %s", raw)
		}
	}

	return nil
}

func GatewayDriver() string {
	if driver := os.Getenv(GATEWAY_DRIVER); driver != "" {
		return driver
	}
	return GATEWAY_MONGO
}

func DragActivationDistance() float64 {
	if d, err := strconv.ParseFloat(os.Getenv(DRAG_ACTIVATION_DISTANCE), 64); err == nil && d >= 0 {
		return d
	}
	return DEFAULT_DRAG_ACTIVATION_DISTANCE
}
