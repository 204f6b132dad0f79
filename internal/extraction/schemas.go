package extraction

// PropertiesSchema describes listing extraction results.
var PropertiesSchema = MustSchema("properties.json", `{
  "type": "object",
  "properties": {
    "properties": {
      "type": "array",
      "description": "List of properties",
      "items": {
        "type": "object",
        "properties": {
          "building_name": {"type": ["string", "null"], "description": "Name of the building/property"},
          "property_type": {"type": ["string", "null"], "description": "Type (e.g., apartment, chalet, house)"},
          "location_address": {"type": ["string", "null"], "description": "Address including city/canton"},
          "canton": {"type": ["string", "null"], "description": "Two-letter Swiss canton code"},
          "price": {"type": ["string", "number", "null"], "description": "Price in CHF"},
          "description": {"type": ["string", "null"], "description": "Property details"},
          "size": {"type": ["string", "number", "null"], "description": "Living area with unit, e.g. 120 m²"},
          "rooms": {"type": ["string", "number", "null"], "description": "Number of rooms"},
          "image_url": {"type": ["string", "null"], "description": "URL of the main listing image"},
          "listing_url": {"type": ["string", "null"], "description": "URL of the listing detail page"}
        }
      }
    }
  },
  "required": ["properties"]
}`)

// LocationsSchema describes market-analysis extraction results.
var LocationsSchema = MustSchema("locations.json", `{
  "type": "object",
  "properties": {
    "locations": {
      "type": "array",
      "description": "List of location data",
      "items": {
        "type": "object",
        "properties": {
          "location": {"type": "string"},
          "price_per_sqm": {"type": "number", "minimum": 0},
          "annual_increase": {"type": "number"},
          "rental_yield": {"type": "number"}
        },
        "required": ["location"]
      }
    }
  },
  "required": ["locations"]
}`)
