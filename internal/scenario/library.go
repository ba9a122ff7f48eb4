package scenario

// GetNocheTransitada retorna el escenario "Noche Transitada"
func GetNocheTransitada() *Scenario {
	return &Scenario{
		Name:        "Noche Transitada",
		Description: "Vehículos pasando de noche a lo largo del tramo, sin incidentes",
		Duration:    60,
		Steps: []ScenarioStep{
			{Time: 0, Action: ActionLog, Value: "🌙 Noche en el tramo, tráfico normal"},
			{Time: 0, Action: ActionDaylight, Value: false},

			// Un vehículo recorre el tramo de punta a punta
			{Time: 5, Action: ActionVehiclePass, Node: 0, Value: 1.5},
			{Time: 8, Action: ActionVehiclePass, Node: 1, Value: 1.5},
			{Time: 11, Action: ActionVehiclePass, Node: 2, Value: 1.5},
			{Time: 14, Action: ActionVehiclePass, Node: 3, Value: 1.5},
			{Time: 17, Action: ActionVehiclePass, Node: 4, Value: 1.5},

			// Segundo vehículo en sentido contrario
			{Time: 30, Action: ActionLog, Value: "🚗 Vehículo en sentido contrario"},
			{Time: 30, Action: ActionVehiclePass, Node: 4, Value: 1.2},
			{Time: 33, Action: ActionVehiclePass, Node: 3, Value: 1.2},
			{Time: 36, Action: ActionVehiclePass, Node: 2, Value: 1.2},
			{Time: 39, Action: ActionVehiclePass, Node: 1, Value: 1.2},
			{Time: 42, Action: ActionVehiclePass, Node: 0, Value: 1.2},

			{Time: 55, Action: ActionLog, Value: "✅ Escenario completado"},
		},
	}
}

// GetChoqueNocturno retorna el escenario "Choque Nocturno"
func GetChoqueNocturno() *Scenario {
	return &Scenario{
		Name:        "Choque Nocturno",
		Description: "Vehículo pasa por el tramo y choca frente al nodo central",
		Duration:    90,
		Steps: []ScenarioStep{
			{Time: 0, Action: ActionLog, Value: "🌙 Noche en el tramo"},
			{Time: 0, Action: ActionDaylight, Value: false},

			// El vehículo avanza por el tramo
			{Time: 5, Action: ActionVehiclePass, Node: 0, Value: 1.5},
			{Time: 8, Action: ActionVehiclePass, Node: 1, Value: 1.5},

			// Choque frente al nodo 2: ráfaga de pulsos del sensor de golpe
			{Time: 11, Action: ActionLog, Value: "💥 CHOQUE frente al nodo 2"},
			{Time: 11, Action: ActionImpact, Node: 2, Value: 4},

			// Réplica del mismo choque poco después (el hub la absorbe)
			{Time: 20, Action: ActionLog, Value: "💥 Réplica del impacto (mismo nodo)"},
			{Time: 20, Action: ActionImpact, Node: 2, Value: 3},

			// El tráfico sigue llegando al sitio
			{Time: 35, Action: ActionVehiclePass, Node: 0, Value: 1.5},
			{Time: 38, Action: ActionVehiclePass, Node: 1, Value: 1.5},

			{Time: 80, Action: ActionLog, Value: "✅ Escenario completado"},
		},
	}
}

// GetChoqueDeDia retorna el escenario "Choque de Día"
func GetChoqueDeDia() *Scenario {
	return &Scenario{
		Name:        "Choque de Día",
		Description: "Impacto a pleno día: se reporta igual, las luminarias no encienden",
		Duration:    60,
		Steps: []ScenarioStep{
			{Time: 0, Action: ActionLog, Value: "☀️ Día en el tramo"},
			{Time: 0, Action: ActionDaylight, Value: true},

			{Time: 10, Action: ActionLog, Value: "💥 CHOQUE a mediodía frente al nodo 1"},
			{Time: 10, Action: ActionImpact, Node: 1, Value: 3},

			// Atardece de a poco: el promedio móvil del LDR cruza el umbral
			// sin parpadear
			{Time: 25, Action: ActionLog, Value: "🌆 Atardecer en el tramo"},
			{Time: 25, Action: ActionAmbient, Value: 400},

			// Anochece con el pánico todavía activo: las luces aparecen
			{Time: 30, Action: ActionLog, Value: "🌙 Anochece con el incidente activo"},
			{Time: 30, Action: ActionDaylight, Value: false},

			{Time: 55, Action: ActionLog, Value: "✅ Escenario completado"},
		},
	}
}

// GetNodoSinFix retorna el escenario "Nodo Sin Fix"
func GetNodoSinFix() *Scenario {
	return &Scenario{
		Name:        "Nodo Sin Fix",
		Description: "Impacto en un nodo sin fix GPS: el reporte viaja sin posición",
		Duration:    60,
		Steps: []ScenarioStep{
			{Time: 0, Action: ActionDaylight, Value: false},

			{Time: 5, Action: ActionLog, Value: "📡 Nodo 3 pierde el fix GPS"},
			{Time: 5, Action: ActionGPSFix, Node: 3, Value: false},

			{Time: 15, Action: ActionLog, Value: "💥 CHOQUE frente al nodo 3 (sin posición)"},
			{Time: 15, Action: ActionImpact, Node: 3, Value: 3},

			{Time: 35, Action: ActionLog, Value: "📡 Nodo 3 recupera el fix"},
			{Time: 35, Action: ActionGPSFix, Node: 3, Value: true},

			{Time: 55, Action: ActionLog, Value: "✅ Escenario completado"},
		},
	}
}

// GetAllScenarios retorna todos los escenarios disponibles
func GetAllScenarios() map[string]*Scenario {
	return map[string]*Scenario{
		"noche_transitada": GetNocheTransitada(),
		"choque_nocturno":  GetChoqueNocturno(),
		"choque_de_dia":    GetChoqueDeDia(),
		"nodo_sin_fix":     GetNodoSinFix(),
	}
}

// GetScenarioByName retorna un escenario por nombre
func GetScenarioByName(name string) *Scenario {
	scenarios := GetAllScenarios()
	return scenarios[name]
}

// GetScenarioNames retorna los nombres de todos los escenarios
func GetScenarioNames() []string {
	return []string{
		"noche_transitada",
		"choque_nocturno",
		"choque_de_dia",
		"nodo_sin_fix",
	}
}
