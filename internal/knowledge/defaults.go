package knowledge

// DefaultKnowledgeBase returns the built-in condition table. Order matters:
// the classifier picks the first key contained in the user's message.
func DefaultKnowledgeBase() *KnowledgeBase {
	return MustKnowledgeBase(
		Condition{
			Key:       "fever",
			Medicines: []string{"Paracetamol", "Ibuprofen"},
			Avoid:     []string{"Cold drinks", "Heavy meals", "Excess physical activity"},
			Remedies:  []string{"Drink warm fluids", "Take rest", "Use a cold compress on the forehead"},
		},
		Condition{
			Key:       "cold",
			Medicines: []string{"Cetirizine", "Paracetamol"},
			Avoid:     []string{"Cold beverages", "Dairy products", "Dust and smoke"},
			Remedies:  []string{"Drink warm honey-lemon tea", "Steam inhalation", "Gargle with salt water"},
		},
		Condition{
			Key:       "cough",
			Medicines: []string{"Dextromethorphan", "Ambroxol"},
			Avoid:     []string{"Cold food", "Sugary snacks", "Smoking"},
			Remedies:  []string{"Drink ginger tea", "Use honey and warm water", "Stay hydrated"},
		},
		Condition{
			Key:       "headache",
			Medicines: []string{"Aspirin", "Ibuprofen"},
			Avoid:     []string{"Bright lights", "Loud noises", "Caffeine"},
			Remedies:  []string{"Rest in a dark room", "Apply a cold compress", "Drink plenty of water"},
		},
		Condition{
			Key:       "diabetes",
			Medicines: []string{"Metformin", "Insulin"},
			Avoid:     []string{"Sugary foods", "High-carb diet", "Alcohol"},
			Remedies:  []string{"Eat fiber-rich foods", "Exercise regularly", "Monitor blood sugar levels"},
		},
		Condition{
			Key:       "hypertension",
			Medicines: []string{"Amlodipine", "Losartan"},
			Avoid:     []string{"Salty foods", "Stress", "Caffeine"},
			Remedies:  []string{"Practice deep breathing", "Reduce sodium intake", "Exercise regularly"},
		},
		Condition{
			Key:       "asthma",
			Medicines: []string{"Salbutamol", "Budesonide"},
			Avoid:     []string{"Dust", "Cold air", "Strong odors"},
			Remedies:  []string{"Use a humidifier", "Practice breathing exercises", "Avoid allergens"},
		},
		Condition{
			Key:       "infection",
			Medicines: []string{"Amoxicillin", "Azithromycin"},
			Avoid:     []string{"Unhygienic conditions", "Touching infected areas", "Self-medication"},
			Remedies:  []string{"Drink turmeric milk", "Maintain hygiene", "Stay hydrated"},
		},
		Condition{
			Key:       "pain",
			Medicines: []string{"Ibuprofen", "Acetaminophen"},
			Avoid:     []string{"Heavy lifting", "Prolonged standing", "High-impact activities"},
			Remedies:  []string{"Apply heat or ice", "Practice stretching", "Get adequate rest"},
		},
		Condition{
			Key:       "acidity",
			Medicines: []string{"Pantoprazole", "Ranitidine"},
			Avoid:     []string{"Spicy food", "Caffeine", "Smoking"},
			Remedies:  []string{"Drink cold milk", "Eat smaller meals", "Chew gum to increase saliva"},
		},
		Condition{
			Key:       "allergy",
			Medicines: []string{"Loratadine", "Fexofenadine"},
			Avoid:     []string{"Pollen", "Dust mites", "Strong perfumes"},
			Remedies:  []string{"Use a saline rinse", "Wear a mask outside", "Keep home dust-free"},
		},
		Condition{
			Key:       "anxiety",
			Medicines: []string{"Alprazolam", "Diazepam"},
			Avoid:     []string{"Caffeine", "Negative news", "Overworking"},
			Remedies:  []string{"Practice meditation", "Take deep breaths", "Maintain a sleep schedule"},
		},
		Condition{
			Key:       "depression",
			Medicines: []string{"Fluoxetine", "Sertraline"},
			Avoid:     []string{"Social isolation", "Junk food", "Excessive alcohol"},
			Remedies:  []string{"Engage in social activities", "Exercise daily", "Practice gratitude"},
		},
		Condition{
			Key:       "arthritis",
			Medicines: []string{"Methotrexate", "Naproxen"},
			Avoid:     []string{"Cold weather", "Excessive sugar", "Smoking"},
			Remedies:  []string{"Take warm baths", "Do light stretching", "Maintain a healthy weight"},
		},
		Condition{
			Key:       "covid",
			Medicines: []string{"Molnupiravir", "Favipiravir"},
			Avoid:     []string{"Crowded places", "Close contact with infected persons", "Cold drinks"},
			Remedies:  []string{"Rest well", "Drink warm fluids", "Isolate if symptomatic"},
		},
	)
}

// DefaultCatalog returns the built-in medicine catalog. Prices are in rupees.
func DefaultCatalog() *Catalog {
	return MustCatalog(
		CatalogItem{ID: 1, Name: "Paracetamol 500mg", Generic: "Acetaminophen", Price: 35, Description: "For fever and pain relief"},
		CatalogItem{ID: 2, Name: "Cetrizine 10mg", Generic: "Cetirizine", Price: 45, Description: "For allergies and cold symptoms"},
		CatalogItem{ID: 3, Name: "Ibuprofen 400mg", Generic: "Ibuprofen", Price: 50, Description: "Anti-inflammatory for pain and swelling"},
		CatalogItem{ID: 4, Name: "Vitamin C 1000mg", Generic: "Ascorbic Acid", Price: 120, Description: "Immune system support"},
		CatalogItem{ID: 5, Name: "Omeprazole 20mg", Generic: "Omeprazole", Price: 85, Description: "For acid reflux and heartburn"},
		CatalogItem{ID: 6, Name: "Amoxicillin 500mg", Generic: "Amoxicillin", Price: 95, Description: "Antibiotic for bacterial infections"},
		CatalogItem{ID: 7, Name: "Aspirin 300mg", Generic: "Acetylsalicylic Acid", Price: 40, Description: "Pain reliever and blood thinner"},
		CatalogItem{ID: 8, Name: "Loratadine 10mg", Generic: "Loratadine", Price: 55, Description: "Non-drowsy antihistamine for allergies"},
		CatalogItem{ID: 9, Name: "Pantoprazole 40mg", Generic: "Pantoprazole", Price: 90, Description: "For acid reflux and stomach ulcers"},
		CatalogItem{ID: 10, Name: "Dextromethorphan syrup", Generic: "Dextromethorphan", Price: 65, Description: "Cough suppressant"},
	)
}
