package seed

type demoUser struct {
	username, email, password string
}

var demoManagers = []demoUser{
	{"admin", "admin@robotics.example.com", "admin123"},
	{"manager", "manager@robotics.example.com", "manager123"},
}

var demoCustomers = []demoUser{
	{"oleksandr", "oleksandr@example.com", "password123"},
	{"mariya", "mariya@example.com", "password123"},
	{"ivan", "ivan@example.com", "password123"},
	{"anna", "anna@example.com", "password123"},
	{"petro", "petro@example.com", "password123"},
	{"natalia", "natalia@example.com", "password123"},
}

type demoCategory struct {
	name, description string
}

var demoCategories = []demoCategory{
	{"Microcontrollers", "Microcontrollers and development boards"},
	{"Sensors", "Sensors for robotics projects"},
	{"Motors and drives", "Motors, servos and other motion parts"},
	{"Power", "Batteries, power supplies and converters"},
	{"Tools", "Tools for building and maintaining projects"},
}

type demoProduct struct {
	name, description string
	price             string
	stock             int
	category          string
	imageURL          string
}

var demoProducts = []demoProduct{
	{"Arduino Uno R3", "Classic ATmega328P board, a good first board.", "250.00", 20, "Microcontrollers", "https://content.arduino.cc/assets/UNO-TH_front.jpg"},
	{"Arduino Nano", "Compact board with the Uno's capabilities.", "180.00", 15, "Microcontrollers", ""},
	{"Raspberry Pi 4 Model B 4GB", "Quad-core single-board computer with 4 GB RAM.", "1800.00", 10, "Microcontrollers", ""},
	{"ESP32 DevKit", "32-bit microcontroller with WiFi and Bluetooth.", "220.00", 25, "Microcontrollers", ""},
	{"STM32 Blue Pill", "Low-cost ARM Cortex-M3 board.", "120.00", 30, "Microcontrollers", ""},
	{"DHT22 temperature and humidity sensor", "Precise temperature and relative humidity sensor.", "120.00", 40, "Sensors", ""},
	{"HC-SR04 ultrasonic sensor", "Measures distance to objects.", "45.00", 50, "Sensors", ""},
	{"MPU6050 gyroscope and accelerometer", "6-axis motion sensor.", "85.00", 30, "Sensors", ""},
	{"PIR motion sensor", "Infrared motion detector.", "60.00", 35, "Sensors", ""},
	{"SG90 servo", "Miniature servo for light loads.", "55.00", 40, "Motors and drives", ""},
	{"MG996R servo", "Metal-gear servo for heavier loads.", "120.00", 20, "Motors and drives", ""},
	{"Nema 17 stepper motor", "Stepper motor for 3D printers and CNC.", "280.00", 15, "Motors and drives", ""},
	{"L298N motor driver", "Dual DC motor driver module.", "85.00", 25, "Motors and drives", ""},
	{"18650 Li-ion cell", "Rechargeable 3000mAh lithium-ion cell.", "150.00", 50, "Power", ""},
	{"LM2596 buck converter", "Adjustable step-down DC-DC converter.", "55.00", 40, "Power", ""},
	{"5V 1W solar panel", "Small solar panel for autonomous projects.", "180.00", 15, "Power", ""},
	{"Soldering station", "Temperature-controlled soldering station.", "800.00", 5, "Tools", ""},
	{"Digital multimeter", "Measures voltage, current and resistance.", "350.00", 10, "Tools", ""},
	{"Breadboard", "Solderless prototyping board.", "85.00", 30, "Tools", ""},
}

var demoComments = []string{
	"Works as described.",
	"Arrived quickly, well packed.",
	"Good value for the price.",
	"Documentation could be better.",
	"Exactly what my project needed.",
}
