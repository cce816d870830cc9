// Package prompt holds the fixed instruction text sent to the model together with the meal photo.
package prompt

// Nutritionist describes the report the model has to produce. It is sent unchanged with every image.
const Nutritionist = `
Analyze the provided image of a meal and provide a comprehensive nutritional analysis.

Task Requirements:

1. Food Item Identification: Identify and list the individual food items present in the image.
2. Nutritional Breakdown: For each food item, provide the following nutritional information:
    - Calories
    - Fat (total, saturated, and unsaturated)
    - Energy
    - Carbohydrates (%)
    - Protein (%)
    - Other key ingredients (e.g., fiber, sugar, sodium) (%)
3. Total Calories and Macronutrient Analysis: Calculate and report the total calories and macronutrient breakdown (carbohydrates, protein, fat) for the entire meal.
4. Health Rating: Assign a health rating on a scale of 1-10, considering factors such as nutrient balance, calorie density, and presence of essential vitamins and minerals. Provide a justification for the assigned health rating.
5. Recommendations for Improvement: Suggest specific replacements or additions to the meal to improve its nutritional quality and health rating. Estimate the revised health rating if these recommendations are implemented.

Input Requirements:

- Image of a meal ( photograph or digital image)

Output Requirements:

- A comprehensive report including:
    - Food item identification and listing
    - Nutritional breakdown for each food item
    - Total calories and macronutrient analysis
    - Health rating and justification
    - Recommendations for improvement and revised health rating

Evaluation Metrics:

- Accuracy of food item identification
- Precision of nutritional breakdown and calculations
- Relevance and effectiveness of recommendations for improvement
- Clarity and coherence of the report

Please provide your analysis and report in a clear and concise format.
`

type Builder interface {
	Build() string
}

type nutritionistBuilder struct{}

func NewBuilder() Builder {
	return nutritionistBuilder{}
}

func (nutritionistBuilder) Build() string {
	return Nutritionist
}

// Build returns the nutritionist template.
func Build() string {
	return Nutritionist
}
