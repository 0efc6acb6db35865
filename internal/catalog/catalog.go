// Package catalog holds the static reference knowledge base that grounds
// content generation. The generator consults it before reaching for live
// search so that known SKUs get their real specifications instead of
// model guesses.
package catalog

// Data is the core knowledge base document, supplied verbatim to the
// generator as grounding context.
const Data = `
MILWAUKEE CORE KNOWLEDGE BASE

[M12 FUEL 1/2" Hammer Drill/Driver - 2504-22]
Specs: 350 in-lbs Peak Torque, 0-1,700 RPM, 0-25,500 BPM. 1/2" Metal Single Sleeve Chuck. 6.6" length, 2.3 lbs.
Includes: (1) M12 XC4.0, (1) M12 CP2.0, Belt Clip, Charger, Carrying Case.

[M12 FUEL 1/4" Hex Impact Driver - 2553-22]
Specs: 1,300 in-lbs Fastening Torque, 0-4,000 IPM, 0-3,300 RPM. 5.1" length, 1.8 lbs.
Includes: (2) M12 CP2.0 Battery Packs, Belt Clip, Charger, Carrying Case.

[M18 FUEL 1/2" Hammer Drill/Driver - 2804-22]
Specs: 1,200 in-lbs Peak Torque, 0-550/0-2,000 RPM, 0-32,000 BPM. 6.9" length.
Includes: (2) M18 XC5.0 Battery Packs, Belt Clip, Side Handle, Multi-Voltage Charger.

[M18 FUEL 1" D-Handle High Torque Impact - 2868-22HD]
Specs: 1,900 ft-lbs Fastening Torque, 2,000 ft-lbs Nut-Busting Torque. 0-1,200 RPM.
Includes: (2) M18 HIGH OUTPUT HD12.0 Batteries, Adjustable Handle, Rapid Charger.

[MX FUEL 14" Cut-Off Saw - MXF314-2XC]
Specs: 14" Blade, 5" Cut Depth, 5,350 RPM. Push Button Start. 32.1 lbs.
Includes: (2) MX FUEL XC406 Battery Packs, MXF Charger, Blade Wrench, Case.

[TECHNOLOGY DEFINITIONS]
- POWERSTATE(TM): Brushless motors with top-grade rare earth magnets. Up to 10X longer life.
- REDLINK PLUS(TM): Advanced electronics preventing damage from overloading or overheating.
- REDLITHIUM(TM): Superior pack construction, electronics, and performance.
- ONE-KEY(TM): Industry's first digital platform for tools and equipment.
- TRUEVIEW(TM): High definition lighting for accurate color and detail.
`
