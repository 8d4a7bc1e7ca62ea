package types

// SensorStatus is the wire format of the sensor status endpoint.
type SensorStatus struct {
	Temperature  float64 `json:"temperature"`   // Celsius
	Humidity     float64 `json:"humidity"`      // Percent
	LightLevel   float64 `json:"light_level"`   // Lux (approx)
	SoilMoisture float64 `json:"soil_moisture"` // Percent
}

// SensorData is the app-side shape of a reading, as stored in history.
type SensorData struct {
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	Light        float64 `json:"light"`
	SoilMoisture float64 `json:"soilMoisture"`
}

func (s SensorStatus) ToSensorData() SensorData {
	return SensorData{
		Temperature:  s.Temperature,
		Humidity:     s.Humidity,
		Light:        s.LightLevel,
		SoilMoisture: s.SoilMoisture,
	}
}

func (s SensorData) ToStatus() SensorStatus {
	return SensorStatus{
		Temperature:  s.Temperature,
		Humidity:     s.Humidity,
		LightLevel:   s.Light,
		SoilMoisture: s.SoilMoisture,
	}
}
