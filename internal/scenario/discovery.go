package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScenarioInfo contiene información de un escenario disponible
type ScenarioInfo struct {
	ID       string // "choque_nocturno", "mi_escenario_custom"
	Name     string // "Choque Nocturno", "Mi Escenario Custom"
	Source   string // "builtin" o "yaml"
	FilePath string // Ruta al archivo YAML (si es yaml)
}

// DiscoverScenarios encuentra todos los escenarios disponibles
func DiscoverScenarios(yamlDir string) []ScenarioInfo {
	scenarios := make([]ScenarioInfo, 0)

	// 1. Agregar escenarios predefinidos (builtin)
	for _, id := range GetScenarioNames() {
		scenarios = append(scenarios, ScenarioInfo{
			ID:     id,
			Name:   GetScenarioByName(id).Name,
			Source: "builtin",
		})
	}

	// 2. Buscar archivos YAML en el directorio
	if yamlDir != "" {
		yamlScenarios := discoverYAMLScenarios(yamlDir)
		scenarios = append(scenarios, yamlScenarios...)
	}

	return scenarios
}

// discoverYAMLScenarios busca archivos .yaml/.yml en un directorio
func discoverYAMLScenarios(dir string) []ScenarioInfo {
	scenarios := make([]ScenarioInfo, 0)

	// Verificar si el directorio existe
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return scenarios
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		fmt.Printf("⚠️  Error leyendo directorio de escenarios: %v\n", err)
		return scenarios
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		// Solo archivos .yaml o .yml
		ext := strings.ToLower(filepath.Ext(file.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		fileName := file.Name()
		baseName := strings.TrimSuffix(fileName, ext)

		id := "yaml_" + baseName

		name := strings.ReplaceAll(baseName, "_", " ")
		name = strings.Title(name)

		filePath := filepath.Join(dir, fileName)

		scenarios = append(scenarios, ScenarioInfo{
			ID:       id,
			Name:     name + " (YAML)",
			Source:   "yaml",
			FilePath: filePath,
		})

		fmt.Printf("📄 Escenario YAML detectado: %s (%s)\n", name, filePath)
	}

	return scenarios
}

// Resolve carga un escenario por ID (builtin o yaml_<archivo>)
func Resolve(id, yamlDir string) (*Scenario, error) {
	if s := GetScenarioByName(id); s != nil {
		return s, nil
	}

	if strings.HasPrefix(id, "yaml_") {
		base := strings.TrimPrefix(id, "yaml_")
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(yamlDir, base+ext)
			if _, err := os.Stat(path); err == nil {
				return LoadScenario(path)
			}
		}
	}

	// Permitir también una ruta directa a archivo
	if _, err := os.Stat(id); err == nil {
		return LoadScenario(id)
	}

	return nil, fmt.Errorf("escenario '%s' no encontrado", id)
}
